package commands

import (
	"PassVault/internal/cli/service"
	"PassVault/internal/config"
	"context"
	"flag"
	"fmt"
)

type generateCmd struct{}

func (generateCmd) Name() string        { return "generate" }
func (generateCmd) Description() string { return "Generate a random password" }
func (generateCmd) Usage() string {
	return "generate [-length 8..64] [-no-upper] [-no-lower] [-no-digits] [-no-symbols] [-allow-similar]"
}

func (generateCmd) Run(_ context.Context, _ *config.Config, args []string) error {
	var noUpper, noLower, noDigits, noSymbols, similar bool
	o := service.DefaultGenerateOptions()
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.IntVar(&o.Length, "length", o.Length, "password length")
	fs.BoolVar(&noUpper, "no-upper", false, "no upper-case letters")
	fs.BoolVar(&noLower, "no-lower", false, "no lower-case letters")
	fs.BoolVar(&noDigits, "no-digits", false, "no digits")
	fs.BoolVar(&noSymbols, "no-symbols", false, "no symbols")
	fs.BoolVar(&similar, "allow-similar", false, "allow look-alike characters such as l, 1, O, 0")
	pos, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 0 {
		return ErrUsage
	}
	o.Upper, o.Lower, o.Digits, o.Symbols = !noUpper, !noLower, !noDigits, !noSymbols
	o.ExcludeSimilar = !similar

	p, err := service.GeneratePassword(o)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, p)
	return nil
}

func init() { RegisterCmd(generateCmd{}) }

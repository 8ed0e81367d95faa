package commands

import (
	"PassVault/internal/cli/model"
	"PassVault/internal/cli/service"
	"PassVault/internal/config"
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"
)

// itemFlags — общие флаги add и edit.
type itemFlags struct {
	username, website, note, folder, tags, password string
	generate                                        bool
	length                                          int
}

func (f *itemFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.username, "username", "", "login on the site")
	fs.StringVar(&f.website, "website", "", "site URL")
	fs.StringVar(&f.note, "note", "", "free-form note")
	fs.StringVar(&f.folder, "folder", "", "folder (default General)")
	fs.StringVar(&f.tags, "tags", "", "comma-separated tags")
	fs.StringVar(&f.password, "password", "", "password (prompted when omitted)")
	fs.BoolVar(&f.generate, "generate", false, "generate a random password")
	fs.IntVar(&f.length, "length", service.DefaultPasswordLength, "length of a generated password")
}

func (f *itemFlags) secret(prompt string) (string, error) {
	if f.generate {
		o := service.DefaultGenerateOptions()
		o.Length = f.length
		return service.GeneratePassword(o)
	}
	if f.password != "" {
		return f.password, nil
	}
	return ReadSecret(prompt)
}

type addCmd struct{}

func (addCmd) Name() string        { return "add" }
func (addCmd) Description() string { return "Add a password entry" }
func (addCmd) Usage() string {
	return "add <name> [-username u] [-website url] [-folder f] [-tags a,b] [-note n] [-password p | -generate [-length n]]"
}

func (addCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	var f itemFlags
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	f.register(fs)
	pos, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 || strings.TrimSpace(pos[0]) == "" {
		return ErrUsage
	}

	s := newServices(cfg)
	key, _, err := s.vaultKey()
	if err != nil {
		return err
	}
	password, err := f.secret("Password for " + pos[0] + ": ")
	if err != nil {
		return err
	}
	it, err := s.vault.Add(ctx, key, model.ItemMeta{
		Name:     pos[0],
		Website:  f.website,
		Username: f.username,
		Note:     f.note,
		Folder:   f.folder,
		Tags:     splitTags(f.tags),
	}, password)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Created:")
	fmt.Fprintf(Out, "  id:     %s\n", it.ID)
	fmt.Fprintf(Out, "  name:   %s\n", it.Meta.Name)
	fmt.Fprintf(Out, "  folder: %s\n", it.Meta.Folder)
	if f.generate {
		fmt.Fprintf(Out, "  password: %s\n", password)
	}
	return nil
}

type listCmd struct{}

func (listCmd) Name() string        { return "list" }
func (listCmd) Description() string { return "List entries (metadata only)" }
func (listCmd) Usage() string       { return "list [-folder f] [-tag t] [-search text]" }

func (listCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	var folder, tag, search string
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.StringVar(&folder, "folder", "", "only this folder")
	fs.StringVar(&tag, "tag", "", "only entries with this tag")
	fs.StringVar(&search, "search", "", "substring of name, username or website")
	pos, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 0 {
		return ErrUsage
	}

	items, err := newServices(cfg).vault.List(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tUSERNAME\tFOLDER\tTAGS\tUPDATED")
	n := 0
	for _, it := range items {
		if !matches(it.Meta, folder, tag, search) {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", it.ID, it.Meta.Name, it.Meta.Username,
			it.Meta.Folder, strings.Join(it.Meta.Tags, ","), it.UpdatedAt.Local().Format(time.DateTime))
		n++
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(Out, "%d item(s)\n", n)
	return nil
}

func matches(m model.ItemMeta, folder, tag, search string) bool {
	if folder != "" && !strings.EqualFold(m.Folder, folder) {
		return false
	}
	if tag != "" {
		found := false
		for _, t := range m.Tags {
			if strings.EqualFold(t, tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if search != "" {
		q := strings.ToLower(search)
		hay := strings.ToLower(m.Name + "\n" + m.Username + "\n" + m.Website)
		if !strings.Contains(hay, q) {
			return false
		}
	}
	return true
}

type getCmd struct{}

func (getCmd) Name() string        { return "get" }
func (getCmd) Description() string { return "Decrypt and show an entry" }
func (getCmd) Usage() string       { return "get <id|name>" }

func (getCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	s := newServices(cfg)
	key, _, err := s.vaultKey()
	if err != nil {
		return err
	}
	it, err := s.vault.Get(ctx, key, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "id:       %s\n", it.ID)
	fmt.Fprintf(Out, "name:     %s\n", it.Meta.Name)
	if it.Meta.Username != "" {
		fmt.Fprintf(Out, "username: %s\n", it.Meta.Username)
	}
	if it.Meta.Website != "" {
		fmt.Fprintf(Out, "website:  %s\n", it.Meta.Website)
	}
	fmt.Fprintf(Out, "password: %s\n", it.Password)
	fmt.Fprintf(Out, "folder:   %s\n", it.Meta.Folder)
	if len(it.Meta.Tags) > 0 {
		fmt.Fprintf(Out, "tags:     %s\n", strings.Join(it.Meta.Tags, ", "))
	}
	if it.Meta.Note != "" {
		fmt.Fprintf(Out, "note:     %s\n", it.Meta.Note)
	}
	return nil
}

type editCmd struct{}

func (editCmd) Name() string        { return "edit" }
func (editCmd) Description() string { return "Change fields of an entry" }
func (editCmd) Usage() string {
	return "edit <id|name> [-name n] [-username u] [-website url] [-folder f] [-tags a,b] [-note n] [-password p | -generate [-length n] | -prompt-password]"
}

func (editCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	var f itemFlags
	var name string
	var prompt bool
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	f.register(fs)
	fs.StringVar(&name, "name", "", "new name")
	fs.BoolVar(&prompt, "prompt-password", false, "ask for a new password")
	pos, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return ErrUsage
	}

	var e service.Edit
	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	str := func(flagName, v string) *string {
		if !set[flagName] {
			return nil
		}
		return &v
	}
	e.Name = str("name", name)
	e.Username = str("username", f.username)
	e.Website = str("website", f.website)
	e.Note = str("note", f.note)
	e.Folder = str("folder", f.folder)
	if set["tags"] {
		e.Tags = splitTags(f.tags)
	}
	changePassword := set["password"] || f.generate || prompt
	if len(set) == 0 {
		return ErrUsage
	}

	s := newServices(cfg)
	key, _, err := s.vaultKey()
	if err != nil {
		return err
	}
	if changePassword {
		p, err := f.secret("New password: ")
		if err != nil {
			return err
		}
		e.Password = &p
		if f.generate {
			fmt.Fprintf(Out, "Generated password: %s\n", p)
		}
	}
	it, err := s.vault.Edit(ctx, key, pos[0], e)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Updated %s (%s)\n", it.Meta.Name, it.ID)
	return nil
}

type deleteCmd struct{}

func (deleteCmd) Name() string        { return "delete" }
func (deleteCmd) Description() string { return "Delete an entry" }
func (deleteCmd) Usage() string       { return "delete <id|name>" }

func (deleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	it, err := newServices(cfg).vault.Delete(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Deleted %s (%s)\n", it.Meta.Name, it.ID)
	return nil
}

func init() {
	RegisterCmd(addCmd{})
	RegisterCmd(listCmd{})
	RegisterCmd(getCmd{})
	RegisterCmd(editCmd{})
	RegisterCmd(deleteCmd{})
}

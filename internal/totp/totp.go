// Package totp — второй фактор по RFC 6238: выпуск секрета, URI для приложений-аутентификаторов
// и проверка кодов с допуском на рассинхронизацию часов.
package totp

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// DefaultWindow — допустимое отклонение в шагах (±1 шаг).
	DefaultWindow uint = 1
	period        uint = 30
	secretSize    uint = 20
	qrSize             = 200
)

// Enrollment — данные для подключения аутентификатора. Состояние не сохраняется.
type Enrollment struct {
	Secret string // base32
	URI    string // otpauth://
	QRCode string // data:image/png;base64,...
}

// Service выпускает и проверяет TOTP-коды.
type Service struct {
	issuer string
	now    func() time.Time
}

// NewService создаёт сервис с именем издателя для URI.
func NewService(issuer string) *Service {
	return &Service{issuer: issuer, now: time.Now}
}

// WithClock подменяет источник времени.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) opts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    period,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// Enroll генерирует новый случайный секрет для метки label (обычно email).
func (s *Service) Enroll(label string) (Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: label,
		Period:      period,
		SecretSize:  secretSize,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return Enrollment{}, fmt.Errorf("generate totp key: %w", err)
	}

	img, err := key.Image(qrSize, qrSize)
	if err != nil {
		return Enrollment{}, fmt.Errorf("render qr code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Enrollment{}, fmt.Errorf("encode qr code: %w", err)
	}

	return Enrollment{
		Secret: key.Secret(),
		URI:    key.URL(),
		QRCode: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// Verify проверяет код для текущего времени ± window шагов.
// Некорректный секрет или код дают false.
func (s *Service) Verify(secret, code string, window uint) bool {
	if secret == "" || code == "" {
		return false
	}
	opts := s.opts()
	opts.Skew = window
	ok, err := totp.ValidateCustom(code, secret, s.now().UTC(), opts)
	return err == nil && ok
}

// Code вычисляет код для момента t.
func (s *Service) Code(secret string, t time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, t.UTC(), s.opts())
}

package utils

import (
	"bytes"
	"encoding/base64"
	"image/png"

	"github.com/pquerna/otp/totp"
)

const totpIssuer = "Birthday Invitations"

// GenerateTOTPSecret returns the secret, the otpauth URL and a PNG QR code as a data URI.
func GenerateTOTPSecret(email string) (string, string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: email,
	})
	if err != nil {
		return "", "", "", err
	}

	img, err := key.Image(200, 200)
	if err != nil {
		return "", "", "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", "", "", err
	}
	qr := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	return key.Secret(), key.URL(), qr, nil
}

func VerifyTOTP(secret, code string) bool {
	return totp.Validate(code, secret)
}

package utils

import (
	"bytes"
	"crypto/rand"
	"encoding/base32"
	"encoding/base64"
	"image/png"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// ReferralType represents the type of entity for which a referral code is being generated
type ReferralType string

const (
	IntroducerType        ReferralType = "INT"
	PartnerType           ReferralType = "PTR"
	CommercialPartnerType ReferralType = "CP"
)

// GenerateReferralCode generates a unique referral code for the specified entity type
// Format: {TYPE}-{RANDOM} where RANDOM is 6 alphanumeric characters
// Example: INT-ABC123, PTR-XYZ789, CP-DEF456
func GenerateReferralCode(entityType ReferralType) (string, error) {
	// Generate 4 random bytes (will give us 6 characters in base32)
	randomBytes := make([]byte, 4)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}

	// Convert to base32 and take first 6 characters
	randomStr := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	randomStr = randomStr[:6]

	// Convert to uppercase and remove any non-alphanumeric characters
	randomStr = strings.ToUpper(randomStr)
	randomStr = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, randomStr)

	// Ensure we have exactly 6 characters
	if len(randomStr) < 6 {
		randomStr = randomStr + strings.Repeat("0", 6-len(randomStr))
	}

	// Combine with entity type
	return string(entityType) + "-" + randomStr, nil
}

// GenerateIntroducerReferralCode generates a referral code for an introducer
func GenerateIntroducerReferralCode() (string, error) {
	return GenerateReferralCode(IntroducerType)
}

// GeneratePartnerReferralCode generates a referral code for a partner
func GeneratePartnerReferralCode() (string, error) {
	return GenerateReferralCode(PartnerType)
}

// GenerateCommercialPartnerReferralCode generates a referral code for a commercial partner
func GenerateCommercialPartnerReferralCode() (string, error) {
	return GenerateReferralCode(CommercialPartnerType)
}

// GenerateReferralQRCode encodes a referral link as a 300x300 QR code and
// returns it as a base64 PNG for embedding in API responses.
func GenerateReferralQRCode(link string) (string, error) {
	qrCode, err := qr.Encode(link, qr.M, qr.Auto)
	if err != nil {
		return "", err
	}

	qrCode, err = barcode.Scale(qrCode, 300, 300)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrCode); err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

package render

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
	"github.com/fatih/color"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	addressStyle   = color.New(color.FgWhite)
	timestampStyle = color.New(color.Faint)
	headerStyle    = color.New(color.Bold, color.FgHiWhite)
	verifiedStyle  = color.New(color.FgGreen)
	failedStyle    = color.New(color.FgRed)
	pendingStyle   = color.New(color.FgYellow)
	unverified     = color.New(color.Faint)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Capitalize first letter
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}
	return color.New(color.FgRed).Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// FormatEther renders a wei amount in ether with up to 4 decimals
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "-"
	}
	ether := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(params.Ether))
	s := ether.Text('f', 4)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + " ETH"
}

// formatVerificationStatus returns a colored, title-cased status
func formatVerificationStatus(status models.VerificationStatus) string {
	if status == "" {
		status = models.VerificationStatusUnverified
	}
	label := cases.Title(language.English).String(strings.ToLower(string(status)))
	switch status {
	case models.VerificationStatusVerified:
		return verifiedStyle.Sprint("✓ " + label)
	case models.VerificationStatusFailed:
		return failedStyle.Sprint("✗ " + label)
	case models.VerificationStatusPending:
		return pendingStyle.Sprint("⏳ " + label)
	default:
		return unverified.Sprint(label)
	}
}

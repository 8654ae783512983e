package letter

import (
	"fmt"
	"strings"

	"github.com/meridiancap/Fee-Letter-Backend/internal/model"
)

// SubscriptionRef returns the reference quoted on a letter. An explicit code
// from the fee sheet wins verbatim. Otherwise the reference is generated as
// {series}-{Last}{FirstInitial}-{fund}-{seq}: professional investors take
// CC-...-1, everyone else CS-...-2. Classification is the effective one, so
// an override changes the generated series.
func SubscriptionRef(investor model.InvestorRecord, fundType, classification, sheetCode string) string {
	if code := strings.TrimSpace(sheetCode); code != "" {
		return code
	}

	prefix, seq := "CS", "2"
	if classification == model.ClassificationProfessional {
		prefix, seq = "CC", "1"
	}

	initial := ""
	if first := []rune(investor.FirstName); len(first) > 0 {
		initial = string(first[0])
	}

	return fmt.Sprintf("%s-%s%s-%s-%s", prefix, investor.LastName, initial, fundType, seq)
}

// Subject returns the mail subject for a company's fee letter.
func Subject(companyName string) string {
	return "Fee Letter Confirmation – " + companyName
}

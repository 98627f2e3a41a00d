package classify

import (
	"regexp"

	"datalens/domain/profile"
)

// pattern couples a detected type with its fixed regular expression.
// Patterns are evaluated in slice order; the first whose match ratio clears
// the threshold wins.
type pattern struct {
	Type profile.DetectedType
	Re   *regexp.Regexp
}

var patternRules = []pattern{
	{profile.TypeEmail, regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)},
	{profile.TypePhone, regexp.MustCompile(`^\+?[0-9][0-9 .\-()]{6,18}[0-9]$`)},
	{profile.TypeURL, regexp.MustCompile(`^(https?://|www\.)[^\s]+\.[^\s]{2,}$`)},
	// ISO, US and EU date shapes without a time component; values carrying a
	// time reach the datetime parsing rule instead.
	{profile.TypeDate, regexp.MustCompile(`^\d{4}[-/]\d{1,2}[-/]\d{1,2}$`)},
	{profile.TypeDate, regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}$`)},
	{profile.TypeDate, regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{2,4}$`)},
	{profile.TypeTime, regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?( ?[APap][Mm])?$`)},
	{profile.TypeCurrency, regexp.MustCompile(`^[-(]?[$€£¥] ?\d[\d,. ]*\)?$|^[-(]?\d[\d,. ]* ?(USD|EUR|GBP|JPY)\)?$`)},
	{profile.TypePercentage, regexp.MustCompile(`^-?\d+([.,]\d+)? ?%$`)},
	{profile.TypeIPAddress, regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)},
}

// booleanPairs are the canonical true/false vocabularies. A column whose
// normalized unique values form a subset of one pair is boolean.
var booleanPairs = [][2]string{
	{"true", "false"},
	{"yes", "no"},
	{"y", "n"},
	{"1", "0"},
	{"on", "off"},
	{"active", "inactive"},
}

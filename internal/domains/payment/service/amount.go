package service

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	errInvalidAmount = errors.New("invalid amount")

	amountPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// toMinorUnits converts a positive decimal amount in major currency units to
// the currency's smallest unit. Rounding is half-away-from-zero on the digits
// past the second decimal, never truncation: "49.995" becomes 5000, not 4999.
// The conversion works on the decimal text so binary float representation can
// never shave off a half cent.
func toMinorUnits(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if !amountPattern.MatchString(amount) {
		return 0, errInvalidAmount
	}

	intPart, fracPart, _ := strings.Cut(amount, ".")

	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, errInvalidAmount
	}

	for len(fracPart) < 2 {
		fracPart += "0"
	}

	cents, err := strconv.ParseInt(fracPart[:2], 10, 64)
	if err != nil {
		return 0, errInvalidAmount
	}

	minor := units*100 + cents

	if len(fracPart) > 2 && fracPart[2] >= '5' {
		minor++
	}

	if minor <= 0 {
		return 0, errInvalidAmount
	}

	return minor, nil
}

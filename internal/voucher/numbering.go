package voucher

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

var trailingDigits = regexp.MustCompile(`^(.*?)(\d+)$`)

// NextNumber derives the next document number for a voucher type from the
// history. With no prior voucher of the type it returns "1". Otherwise the
// latest voucher (greatest identity, IDs being creation-ordered) supplies
// the previous number: a trailing digit run is incremented and re-padded to
// its original width, a number without trailing digits gets "-1" appended.
func (s *Service) NextNumber(ctx context.Context, company string, vtype Type) (string, error) {
	vouchers, err := s.store.List(ctx, company)
	if err != nil {
		return "", err
	}
	var latest *Voucher
	for i := range vouchers {
		if vouchers[i].Type != vtype {
			continue
		}
		if latest == nil || vouchers[i].ID > latest.ID {
			latest = &vouchers[i]
		}
	}
	if latest == nil {
		return "1", nil
	}
	return incrementNumber(latest.Number), nil
}

func incrementNumber(previous string) string {
	match := trailingDigits.FindStringSubmatch(previous)
	if match == nil {
		return previous + "-1"
	}
	prefix, digits := match[1], match[2]
	n, err := strconv.Atoi(digits)
	if err != nil {
		return previous + "-1"
	}
	return prefix + fmt.Sprintf("%0*d", len(digits), n+1)
}

package enrich

import (
	"github.com/nyaruka/phonenumbers"
	"go.uber.org/zap"
)

// normalizeE164 re-formats a looked-up phone number into E.164 for the
// given region. Numbers that fail to parse or validate are kept in the
// source formatting so normalization never loses data.
func normalizeE164(raw, region string) string {
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		zap.L().Debug("enrich: phone not parseable, keeping source format",
			zap.String("phone", raw),
			zap.Error(err),
		)
		return raw
	}
	if !phonenumbers.IsValidNumber(num) {
		zap.L().Debug("enrich: phone not valid for region, keeping source format",
			zap.String("phone", raw),
			zap.String("region", region),
		)
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

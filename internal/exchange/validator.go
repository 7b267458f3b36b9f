package exchange

import (
	"regexp"
	"strings"

	"github.com/krobus00/trade-exec-service/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

const quoteAssetSuffix = "USDT"

// ValidSymbol accepts alphanumeric symbols quoted in USDT, case-insensitive.
func ValidSymbol(symbol string) bool {
	if symbolPattern.MatchString(symbol) && strings.HasSuffix(strings.ToUpper(symbol), quoteAssetSuffix) {
		return true
	}

	logrus.WithField("symbol", symbol).Error("invalid symbol format")
	return false
}

func ValidSide(side string) (entity.OrderSide, bool) {
	switch strings.ToUpper(strings.TrimSpace(side)) {
	case string(entity.OrderSideBuy):
		return entity.OrderSideBuy, true
	case string(entity.OrderSideSell):
		return entity.OrderSideSell, true
	}

	logrus.WithField("side", side).Error("invalid side, must be BUY or SELL")
	return "", false
}

func ValidQuantity(raw string) (decimal.Decimal, bool) {
	quantity, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || quantity.LessThanOrEqual(decimal.Zero) {
		logrus.WithField("quantity", raw).Error("invalid quantity, must be a positive number")
		return decimal.Zero, false
	}

	return quantity, true
}

func ValidPrice(raw string) (decimal.Decimal, bool) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || price.LessThanOrEqual(decimal.Zero) {
		logrus.WithField("price", raw).Error("invalid price, must be a positive number")
		return decimal.Zero, false
	}

	return price, true
}

// ValidOffset validates a price offset; label only shapes the diagnostic.
func ValidOffset(raw string, label string) (decimal.Decimal, bool) {
	offset, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || offset.LessThanOrEqual(decimal.Zero) {
		logrus.WithFields(logrus.Fields{
			"offset": raw,
			"label":  label,
		}).Errorf("invalid %s offset, must be a positive number", label)
		return decimal.Zero, false
	}

	return offset, true
}

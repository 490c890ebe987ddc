package enums

import "fmt"

// DiscountKind describes how a tier or promotion value is interpreted.
type DiscountKind string

const (
	DiscountKindPercentage DiscountKind = "percentage"
	DiscountKindFixed      DiscountKind = "fixed"
)

var validDiscountKinds = []DiscountKind{
	DiscountKindPercentage,
	DiscountKindFixed,
}

// String implements fmt.Stringer.
func (k DiscountKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known DiscountKind.
func (k DiscountKind) IsValid() bool {
	for _, candidate := range validDiscountKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseDiscountKind converts raw input into a DiscountKind.
func ParseDiscountKind(value string) (DiscountKind, error) {
	for _, candidate := range validDiscountKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount kind %q", value)
}

// DiscountSource identifies which rule produced a price reduction.
type DiscountSource string

const (
	DiscountSourceVolumeTier DiscountSource = "volume_tier"
	DiscountSourcePromotion  DiscountSource = "promotion"
)

// String implements fmt.Stringer.
func (s DiscountSource) String() string {
	return string(s)
}

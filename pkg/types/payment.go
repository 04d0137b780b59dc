package types

type PaymentStatus string

const (
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type PlanInterval string

const (
	PlanIntervalMonth PlanInterval = "month"
	PlanIntervalYear  PlanInterval = "year"
)

// MonthlyCents normalizes a plan price to a monthly amount in minor units.
func (i PlanInterval) MonthlyCents(price int64) float64 {
	if i == PlanIntervalYear {
		return float64(price) / 12
	}
	return float64(price)
}

// CentsToMajor converts minor currency units to major units, e.g. 2900 -> 29.00.
func CentsToMajor(cents int64) float64 {
	return float64(cents) / 100
}

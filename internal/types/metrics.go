package types

// MetricType names a metric the service can calculate
type MetricType string

const (
	MetricTypeMRR               MetricType = "mrr"
	MetricTypeARPU              MetricType = "arpu"
	MetricTypeChurnRate         MetricType = "churn_rate"
	MetricTypeLTV               MetricType = "ltv"
	MetricTypeMRRExpansion      MetricType = "mrr_expansion"
	MetricTypeActiveSubscribers MetricType = "active_subscribers"
	MetricTypeSummary           MetricType = "summary"
)

func (m MetricType) String() string {
	return string(m)
}

// ChurnCalculationMethod records which formula produced a churn rate
type ChurnCalculationMethod string

const (
	// ChurnCalculationMethodTraditional divides churned customers by customers present at period start
	ChurnCalculationMethodTraditional ChurnCalculationMethod = "traditional"
	// ChurnCalculationMethodNewBusiness is used when nobody was a customer at period start
	// and divides churned new customers by customers acquired in the period
	ChurnCalculationMethodNewBusiness ChurnCalculationMethod = "new_business"
	// ChurnCalculationMethodNoCustomers is used when there is no cohort at all
	ChurnCalculationMethodNoCustomers ChurnCalculationMethod = "no_customers"
)

// ChurnReason classifies how a subscription was canceled
type ChurnReason string

const (
	ChurnReasonScheduledCancellation ChurnReason = "scheduled_cancellation"
	ChurnReasonImmediateCancellation ChurnReason = "immediate_cancellation"
	ChurnReasonUnknown               ChurnReason = "unknown"
)

// ExpansionType classifies an estimated expansion event
type ExpansionType string

const (
	ExpansionTypeUpgrade          ExpansionType = "upgrade"
	ExpansionTypeQuantityIncrease ExpansionType = "quantity_increase"
)

// SnapshotSource selects where a request's subscriptions come from
type SnapshotSource string

const (
	// SnapshotSourceRequest uses the subscriptions embedded in the request body
	SnapshotSourceRequest SnapshotSource = "request"
	// SnapshotSourceStripe lists subscriptions from the configured Stripe account
	SnapshotSourceStripe SnapshotSource = "stripe"
)

// Package metrics computes subscription business metrics (MRR, ARPU, churn rate,
// LTV, MRR expansion and active subscriber analysis) over an in-memory snapshot.
//
// Every calculation is a pure function of the snapshot, its parameters and the
// calculator clock. Nothing here performs I/O or keeps state between calls, so a
// Calculator may be shared across goroutines.
//
// Monetary values arrive in minor units and are reported in major units. Each
// derived value is rounded to two decimal places, half away from zero, at the
// same points its formula names; downstream metrics consume the rounded values.
package metrics

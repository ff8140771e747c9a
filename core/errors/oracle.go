package errors

// ErrOracleValidityGate is returned when an operation's required oracle
// validity tier is not met (spec.md §4.3).
var ErrOracleValidityGate = New(KindValidityGate, "oracle: validity tier insufficient for requested action")

package domain

// ReasonCode explains a compliance verdict. Codes are part of the external
// contract: clients branch on them, so existing codes are never renamed or
// renumbered — new codes are only appended.
type ReasonCode string

const (
	// ReasonOK means every check in the chain passed.
	ReasonOK ReasonCode = "OK"
	// ReasonCompliancePaused means the system-wide pause is set.
	ReasonCompliancePaused ReasonCode = "COMPLIANCE_PAUSED"
	// ReasonFrozen means the source or destination wallet carries an
	// administrative freeze.
	ReasonFrozen ReasonCode = "FROZEN"
	// ReasonNotWhitelisted means a party has no current, unrevoked,
	// unexpired claims record.
	ReasonNotWhitelisted ReasonCode = "NOT_WHITELISTED"
	// ReasonLockupActive means the source wallet may hold but not yet
	// originate transfers. The verdict carries the lockup expiry.
	ReasonLockupActive ReasonCode = "LOCKUP_ACTIVE"
	// ReasonSenderNotAccredited denies a REG_D movement whose source is not
	// currently accredited.
	ReasonSenderNotAccredited ReasonCode = "SENDER_NOT_ACCREDITED"
	// ReasonReceiverNotAccredited denies a REG_D movement whose destination
	// is not currently accredited.
	ReasonReceiverNotAccredited ReasonCode = "RECEIVER_NOT_ACCREDITED"
	// ReasonUSPersonRestricted denies a REG_S transfer to a US person.
	ReasonUSPersonRestricted ReasonCode = "US_PERSON_RESTRICTED"
	// ReasonUnknownPartition denies an operation naming a partition the
	// ledger does not track.
	ReasonUnknownPartition ReasonCode = "UNKNOWN_PARTITION"
)

// reasonDescriptions maps each code to its stable human-readable
// explanation. Append-only, like the codes themselves.
var reasonDescriptions = map[ReasonCode]string{
	ReasonOK:                    "all compliance checks passed",
	ReasonCompliancePaused:      "all transfers are paused system-wide",
	ReasonFrozen:                "a party to the transfer is administratively frozen",
	ReasonNotWhitelisted:        "a party has no current compliance claims on file",
	ReasonLockupActive:          "the source wallet is under an active lockup",
	ReasonSenderNotAccredited:   "the source wallet is not an accredited investor",
	ReasonReceiverNotAccredited: "the destination wallet is not an accredited investor",
	ReasonUSPersonRestricted:    "the destination is a US person; this partition is restricted to non-US holders",
	ReasonUnknownPartition:      "the named partition is not tracked by this ledger",
}

// DescribeReason returns the stable explanation for a code, or the empty
// string for an unknown code.
func DescribeReason(code ReasonCode) string {
	return reasonDescriptions[code]
}

// KnownReasons returns every reason code in a stable order for the lookup
// table exposed to external consumers.
func KnownReasons() []ReasonCode {
	return []ReasonCode{
		ReasonOK,
		ReasonCompliancePaused,
		ReasonFrozen,
		ReasonNotWhitelisted,
		ReasonLockupActive,
		ReasonSenderNotAccredited,
		ReasonReceiverNotAccredited,
		ReasonUSPersonRestricted,
		ReasonUnknownPartition,
	}
}

// String returns the string representation of the reason code.
func (c ReasonCode) String() string {
	return string(c)
}

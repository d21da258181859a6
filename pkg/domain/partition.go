package domain

import dErrors "coinscious/pkg/domain-errors"

// Partition names a regulatory compartment of the token. Balances and supply
// are tracked per partition; a transfer never crosses partitions.
type Partition string

// Supported partitions. REG_D segregates the accredited-investor regime,
// REG_S the non-US-person regime.
const (
	PartitionRegD Partition = "REG_D"
	PartitionRegS Partition = "REG_S"
)

var knownPartitions = map[Partition]bool{
	PartitionRegD: true,
	PartitionRegS: true,
}

// ParsePartition validates and returns a Partition.
// Returns an error if the partition is unknown.
func ParsePartition(s string) (Partition, error) {
	p := Partition(s)
	if !knownPartitions[p] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown partition: "+s)
	}
	return p, nil
}

// Known reports whether the partition is one the ledger tracks.
func (p Partition) Known() bool {
	return knownPartitions[p]
}

// String returns the string representation of the partition.
func (p Partition) String() string {
	return string(p)
}

// KnownPartitions returns all partitions the ledger tracks.
func KnownPartitions() []Partition {
	return []Partition{PartitionRegD, PartitionRegS}
}

package domain

import (
	"strconv"
	"strings"
)

// DataRole is the numeric data role used by fit statistic inputs:
// 1 TRAIN, 2 TEST, 3 VALIDATE.
type DataRole int

const (
	RoleTrain    DataRole = 1
	RoleTest     DataRole = 2
	RoleValidate DataRole = 3
)

func (r DataRole) String() string {
	switch r {
	case RoleTest:
		return "TEST"
	case RoleValidate:
		return "VALIDATE"
	default:
		return "TRAIN"
	}
}

func (r DataRole) Valid() bool {
	return r >= RoleTrain && r <= RoleValidate
}

// ParseDataRole accepts TRAIN/TEST/VALIDATE (any case) or 1/2/3.
// Unrecognized names fall back to TRAIN; out of range numbers are rejected.
func ParseDataRole(s string) (DataRole, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		r := DataRole(int(n))
		if !r.Valid() {
			return 0, ErrInvalidDataRole
		}
		return r, nil
	}
	switch strings.ToUpper(s) {
	case "TEST":
		return RoleTest, nil
	case "VALIDATE":
		return RoleValidate, nil
	default:
		return RoleTrain, nil
	}
}

// Partition is the SAS partition indicator (_PartInd_). Template rows are
// ordered by partition: VALIDATE, TRAIN, TEST.
type Partition int

const (
	PartitionValidate Partition = 0
	PartitionTrain    Partition = 1
	PartitionTest     Partition = 2
)

var Partitions = []Partition{PartitionValidate, PartitionTrain, PartitionTest}

func (p Partition) Role() DataRole {
	switch p {
	case PartitionValidate:
		return RoleValidate
	case PartitionTest:
		return RoleTest
	default:
		return RoleTrain
	}
}

func (p Partition) String() string { return p.Role().String() }

func (r DataRole) Partition() Partition {
	switch r {
	case RoleValidate:
		return PartitionValidate
	case RoleTest:
		return PartitionTest
	default:
		return PartitionTrain
	}
}

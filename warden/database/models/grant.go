package models

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// GrantKind tags the three time-bounded grant tables so the reconciliation
// sweep can run the same algorithm over all of them.
type GrantKind int

const (
	GrantTempRole GrantKind = iota
	GrantLockedChannel
	GrantTempBan
)

func (k GrantKind) String() string {
	switch k {
	case GrantTempRole:
		return "temprole"
	case GrantLockedChannel:
		return "locked_channel"
	case GrantTempBan:
		return "tempban"
	default:
		return "unknown"
	}
}

// Grant is the kind-agnostic view of one pending restoration. While a grant
// exists, external state differs from the default and must be restored once
// ExpiresAt passes; deleting the grant is the terminal transition.
type Grant struct {
	Kind      GrantKind
	SubjectID snowflake.ID
	ExtraID   snowflake.ID // role id for temp-role grants, zero otherwise
	ExpiresAt time.Time
}

package usecase

import (
	"context"
	"strings"

	"github.com/travel-backoffice/ticket-inventory/internal/domain"
	"github.com/travel-backoffice/ticket-inventory/internal/resolver"
)

// RouteCode derives the route signature of a ticket from its city codes:
//
//	one way                 DEP-ARR
//	return to the same city DEP-ARR-RETARR  (when ARR equals RETDEP)
//	open jaw                DEP-ARR-RETDEP-RETARR
//
// Tickets without legs have no route code.
func RouteCode(ctx context.Context, coder CityCoder, sess domain.Session, local *domain.Snapshot, t *domain.Ticket) string {
	out := t.Outbound()
	if out == nil {
		return ""
	}

	code := func(ref domain.Ref) string {
		return coder.CityCode(ctx, resolver.Request{
			Session: sess,
			Owner:   t.OwnerOrganizationID,
			Ref:     ref,
			Local:   local,
		})
	}

	dep := code(out.DepartureCity)
	arr := code(out.ArrivalCity)

	ret := t.Return()
	if ret == nil {
		return dep + "-" + arr
	}

	retDep := code(ret.DepartureCity)
	retArr := code(ret.ArrivalCity)
	if arr == retDep {
		return strings.Join([]string{dep, arr, retArr}, "-")
	}
	return strings.Join([]string{dep, arr, retDep, retArr}, "-")
}

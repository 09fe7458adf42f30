package projections

import (
	"context"

	domainMember "dangol/internal/domain/member"
	domainOrder "dangol/internal/domain/order"
)

// JoinedOrder is one order row with its member attributes attached. When
// no member row carries the order's phone key, HasMember is false and the
// member fields stay blank.
type JoinedOrder struct {
	OrderID       string
	Phone         string
	RequestedDate string
	Unsweetened   int
	Sweetened     int
	Berry         int
	Greek         int
	CreatedAt     string

	HasMember  bool
	Name       string
	Region     string
	Address    string
	JoinedDate string
}

// GetAdminOrdersResult carries the query result.
type GetAdminOrdersResult struct {
	Orders       []JoinedOrder
	MemberCount  int
	OrderCount   int
	UnmatchedCnt int // orders whose phone joins no member row
}

// GetAdminOrdersDeps holds dependencies for GetAdminOrders.
type GetAdminOrdersDeps struct {
	OrderStore  OrderStore
	MemberStore MemberStore
}

// QueryGetAdminOrders reads both sheets fully and left-joins orders to
// members on the phone key. The join is exact textual equality on the
// stored value; historical un-normalized phones simply do not match.
// Every order row is preserved; results come back newest-first.
// POST: len(result.Orders) == number of order rows in the sheet
func QueryGetAdminOrders(ctx context.Context, deps GetAdminOrdersDeps) (GetAdminOrdersResult, error) {
	orders, err := deps.OrderStore.All(ctx)
	if err != nil {
		return GetAdminOrdersResult{}, err
	}
	members, err := deps.MemberStore.All(ctx)
	if err != nil {
		return GetAdminOrdersResult{}, err
	}

	memberByPhone := make(map[string]domainMember.Member, len(members))
	for _, m := range members {
		memberByPhone[m.Phone] = m
	}

	result := GetAdminOrdersResult{
		MemberCount: len(members),
		OrderCount:  len(orders),
	}
	// Sheet order is append order (oldest first); walk backwards for display.
	for i := len(orders) - 1; i >= 0; i-- {
		row := joinRow(orders[i], memberByPhone)
		if !row.HasMember {
			result.UnmatchedCnt++
		}
		result.Orders = append(result.Orders, row)
	}
	return result, nil
}

func joinRow(o domainOrder.Line, members map[string]domainMember.Member) JoinedOrder {
	row := JoinedOrder{
		OrderID:       o.OrderID,
		Phone:         o.Phone,
		RequestedDate: o.RequestedDate,
		Unsweetened:   o.Unsweetened,
		Sweetened:     o.Sweetened,
		Berry:         o.Berry,
		Greek:         o.Greek,
		CreatedAt:     o.CreatedAt,
	}
	if m, ok := members[o.Phone]; ok {
		row.HasMember = true
		row.Name = m.Name
		row.Region = m.Region
		row.Address = m.Address
		row.JoinedDate = m.JoinedDate
	}
	return row
}

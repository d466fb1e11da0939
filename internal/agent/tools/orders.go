// Package tools holds the deterministic business tools: the seeded order
// store and product catalog, plus their eino tool wrappers for the generative
// agent's toolkit. Results are pre-formatted user-facing text so the direct
// dispatcher and the fallback guard can surface them verbatim.
package tools

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/custcare-agent/server/internal/agent/model"
	logx "github.com/custcare-agent/server/pkg/logger"
)

// OrderStore is an in-memory order database seeded with demo orders.
type OrderStore struct {
	orders map[string]model.Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders: map[string]model.Order{
			"ORD001": {ID: "ORD001", ProductName: "iPhone 15 Pro", Price: 999.99, Status: "已发货", OrderDate: "2024-01-15"},
			"ORD002": {ID: "ORD002", ProductName: "MacBook Air M2", Price: 1199.99, Status: "处理中", OrderDate: "2024-01-10"},
			"ORD003": {ID: "ORD003", ProductName: "AirPods Pro", Price: 249.99, Status: "已完成", OrderDate: "2024-01-05"},
		},
	}
}

// QueryStatus returns the order's full status text, or a not-found message
// when the id is unknown.
func (s *OrderStore) QueryStatus(orderID string) string {
	order, ok := s.orders[orderID]
	if !ok {
		logx.Warn().Str("tool", "query_order_status").Str("order_id", orderID).Msg("order not found")
		return fmt.Sprintf("未找到订单ID为 %s 的订单，请检查订单号是否正确。", orderID)
	}
	logx.Info().Str("tool", "query_order_status").Str("order_id", orderID).Str("status", order.Status).Msg("order lookup")
	return fmt.Sprintf("订单ID: %s\n商品: %s\n价格: $%.2f\n状态: %s\n下单日期: %s",
		order.ID, order.ProductName, order.Price, order.Status, order.OrderDate)
}

var shippingStatuses = []string{
	"已发货，预计1-2天送达",
	"运输中，已到达配送中心",
	"正在派送中，请保持电话畅通",
	"已送达",
}

// QueryShipping returns a simulated shipping status line for the order.
func (s *OrderStore) QueryShipping(orderID string) string {
	if _, ok := s.orders[orderID]; !ok {
		logx.Warn().Str("tool", "query_shipping_status").Str("order_id", orderID).Msg("order not found")
		return fmt.Sprintf("未找到订单ID为 %s 的订单，无法查询物流信息。", orderID)
	}
	status := shippingStatuses[rand.Intn(len(shippingStatuses))]
	now := time.Now().Format("2006-01-02 15:04")
	logx.Info().Str("tool", "query_shipping_status").Str("order_id", orderID).Str("status", status).Msg("shipping lookup")
	return fmt.Sprintf("订单 %s 的物流状态: %s\n更新时间: %s", orderID, status, now)
}

// ProcessRefund acknowledges a refund request with a generated refund number.
func (s *OrderStore) ProcessRefund(orderID, reason string) string {
	order, ok := s.orders[orderID]
	if !ok {
		logx.Warn().Str("tool", "process_refund").Str("order_id", orderID).Msg("order not found")
		return fmt.Sprintf("未找到订单ID为 %s 的订单，无法处理退款。", orderID)
	}
	refundID := fmt.Sprintf("REF%06d", time.Now().UnixMilli()%1000000)
	logx.Info().Str("tool", "process_refund").Str("order_id", orderID).Str("refund_id", refundID).Msg("refund accepted")
	return fmt.Sprintf("退款请求已受理\n退款编号: %s\n订单ID: %s\n商品: %s\n退款原因: %s\n预计1-3个工作日内处理完成，请注意查收退款款项。",
		refundID, order.ID, order.ProductName, reason)
}

package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custcare-agent/server/internal/agent/model"
)

func TestAnalyzeIntent(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.Intent
	}{
		{name: "product feature inquiry", text: "iPhone 15 的参数", want: model.IntentProductInfo},
		{name: "product intro inquiry", text: "介绍一下macbook air m2", want: model.IntentProductInfo},
		{name: "feature keyword without product", text: "有什么推荐的参数吗", want: model.IntentNone},
		{name: "product without feature keyword", text: "我想买iphone 15 pro", want: model.IntentNone},

		{name: "order status", text: "查询订单ORD001的状态", want: model.IntentOrderStatus},
		{name: "order status without keyword family", text: "我的订单怎么还没到", want: model.IntentNone},

		{name: "warranty policy", text: "保修政策是什么", want: model.IntentKnowledge},
		{name: "return policy", text: "退换货有什么规则", want: model.IntentKnowledge},
		{name: "human agent", text: "怎么转人工", want: model.IntentKnowledge},
		{name: "policy with business keyword excluded", text: "订单的售后政策", want: model.IntentNone},
		{name: "policy with refund keyword excluded", text: "退款的政策是什么", want: model.IntentNone},
		{name: "policy with order id excluded", text: "ORD001还在保修期吗", want: model.IntentNone},

		{name: "chitchat", text: "你好啊", want: model.IntentNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Analyze(tt.text).Intent)
		})
	}
}

func TestAnalyzePrecedence(t *testing.T) {
	// Feature keyword + known product + policy keyword: ProductInfo is
	// evaluated first and wins.
	a := Analyze("iPhone 15 Pro的保修信息")
	assert.Equal(t, model.IntentProductInfo, a.Intent)
	assert.Equal(t, "iPhone 15 Pro", a.Entities.ProductName)
}

func TestAnalyzeEntities(t *testing.T) {
	a := Analyze("查询订单ord001的状态")
	assert.Equal(t, model.IntentOrderStatus, a.Intent)
	assert.Equal(t, "ORD001", a.Entities.OrderID)
	assert.Empty(t, a.Entities.ProductName)
}

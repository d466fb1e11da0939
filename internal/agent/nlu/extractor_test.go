package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractOrderID(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		wantID string
		wantOK bool
	}{
		{name: "plain id", text: "查询订单ORD001的状态", wantID: "ORD001", wantOK: true},
		{name: "lowercase normalized", text: "请帮我查ord12345", wantID: "ORD12345", wantOK: true},
		{name: "mixed case", text: "OrD007x8 哪去了", wantID: "ORD007", wantOK: true},
		{name: "first match wins", text: "ORD111 和 ORD222 都要查", wantID: "ORD111", wantOK: true},
		{name: "too few digits", text: "ORD12 呢", wantOK: false},
		{name: "no id", text: "我的包裹到哪了", wantOK: false},
		{name: "blank", text: "   ", wantOK: false},
		{name: "empty", text: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractOrderID(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestExtractProductName(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantName string
		wantOK   bool
	}{
		{name: "exact phrase", text: "iphone 15 pro 怎么样", wantName: "iPhone 15 Pro", wantOK: true},
		{name: "keyword conjunction", text: "iPhone的15版本介绍一下", wantName: "iPhone 15 Pro", wantOK: true},
		{name: "case insensitive", text: "IPHONE 15 PRO", wantName: "iPhone 15 Pro", wantOK: true},
		{name: "macbook variant", text: "macbook m2 的配置", wantName: "MacBook Air M2", wantOK: true},
		{name: "airpods", text: "airpods 降噪好用吗", wantName: "AirPods Pro", wantOK: true},
		{name: "partial only", text: "iphone 14 怎么样", wantOK: false},
		{name: "unknown product", text: "华为Mate60的参数", wantOK: false},
		{name: "blank", text: " ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ok := ExtractProductName(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

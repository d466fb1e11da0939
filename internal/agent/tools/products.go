package tools

import (
	"fmt"

	logx "github.com/custcare-agent/server/pkg/logger"
)

// ProductCatalog is an in-memory product information database keyed by
// canonical product name (the names the entity extractor resolves to).
type ProductCatalog struct {
	products map[string]string
}

func NewProductCatalog() *ProductCatalog {
	return &ProductCatalog{
		products: map[string]string{
			"iPhone 15 Pro":  "iPhone 15 Pro搭载A17 Pro芯片，配备超瓷晶面板，支持5G网络，后置三摄系统。",
			"MacBook Air M2": "MacBook Air M2采用苹果M2芯片，13.6英寸 Liquid Retina 显示屏，轻薄便携。",
			"AirPods Pro":    "AirPods Pro主动降噪耳机，支持空间音频，自适应通透模式。",
		},
	}
}

// QueryInfo returns the product's description text, or a not-found message
// when the canonical name is unknown.
func (c *ProductCatalog) QueryInfo(productName string) string {
	info, ok := c.products[productName]
	if !ok {
		logx.Warn().Str("tool", "query_product_info").Str("product", productName).Msg("product not found")
		return fmt.Sprintf("抱歉，未找到产品 %s 的详细信息。", productName)
	}
	logx.Info().Str("tool", "query_product_info").Str("product", productName).Msg("product lookup")
	return fmt.Sprintf("产品名称: %s\n产品信息: %s", productName, info)
}

package knowledge

import (
	"context"
	"strings"

	"github.com/custcare-agent/server/internal/agent/model"
	logx "github.com/custcare-agent/server/pkg/logger"
)

// Probe parameters for the already-seeded check. Tighter threshold than user
// searches: we only want near-exact hits of the same document.
const (
	probeLimit     = 5
	probeThreshold = 0.75
)

type seedDocument struct {
	title   string
	content string
}

// The after-sales policies are split into independent topics so a single
// question does not pull back the whole policy block.
var seedDocuments = []seedDocument{
	{
		title: "常见问题与解答",
		content: `问：如何查询订单状态？
答：您可以通过以下方式查询订单状态：
1. 登录官网个人账户，在"我的订单"页面查看
2. 通过本智能客服，提供订单号即可查询
3. 拨打客服热线400-XXX-XXXX，提供订单号查询

问：如何办理退款？
答：退款流程如下：
1. 登录官网个人账户，进入订单详情页申请退款
2. 通过本智能客服，提供订单号和退款原因办理
3. 退款会在1-3个工作日内处理完成，款项原路返回

问：发货后多久能收到商品？
答：发货后到达时间因地区而异：
1. 同城配送：1-2天
2. 省内配送：2-4天
3. 跨省配送：3-7天
4. 特殊地区（西藏、新疆等）：5-10天
5. 具体物流信息可在订单详情页查看

问：如何联系人工客服？
答：如需联系人工客服，请按以下方式操作：
1. 拨打客服热线400-XXX-XXXX（工作时间：9:00-21:00）
2. 在官网页面点击"联系客服"，选择"转人工"
3. 通过本智能客服输入"转人工"申请转接`,
	},
	{
		title: "产品使用指南",
		content: `产品使用指南

iPhone 15 Pro使用注意事项：
1. 首次使用请使用原装充电器充电至100%
2. 避免在温度过高或过低的环境中使用
3. 定期清理充电口和扬声器网孔
4. 不要使用尖锐物品触碰屏幕

MacBook Air M2使用注意事项：
1. 首次使用请充满电后再使用
2. 避免液体溅到键盘和屏幕上
3. 不要阻塞散热口
4. 定期清理系统垃圾和缓存文件

AirPods Pro使用注意事项：
1. 佩戴时请确保耳塞贴合耳道
2. 使用后及时放回充电盒
3. 定期清洁耳塞和充电盒金属触点
4. 避免在潮湿环境中使用`,
	},
	{
		title: "售后服务政策-退换货",
		content: `退换货政策
1. 自签收之日起7天内可无理由退货（特殊商品除外）
2. 15天内出现质量问题可换货
3. 退货商品需保持原包装完整，配件齐全
4. 退货产生的运费由客户承担（质量问题除外）`,
	},
	{
		title: "售后服务政策-保修",
		content: `保修政策
1. iPhone整机保修1年
2. MacBook整机保修2年
3. AirPods整机保修1年
4. 保修期内非人为损坏免费维修`,
	},
	{
		title: "售后服务政策-维修",
		content: `维修服务
1. 官方授权维修点提供维修服务
2. 维修周期一般为1-2周
3. 贵重物品建议提前备份数据
4. 维修前可先通过智能客服查询常见问题`,
	},
}

// Seed loads the built-in customer-service documents into the store, skipping
// documents an earlier run already wrote.
func Seed(ctx context.Context, store *Store) error {
	added, skipped := 0, 0
	for _, doc := range seedDocuments {
		exists, err := isDocumentSeeded(ctx, store, doc)
		if err != nil {
			logx.Warn().Err(err).Str("title", doc.title).Msg("seed presence check failed")
		}
		if exists {
			skipped++
			continue
		}
		if err := store.AddDocument(ctx, doc.title, doc.content); err != nil {
			return err
		}
		added++
	}
	logx.Info().Int("added", added).Int("skipped", skipped).Msg("knowledge base seeded")
	return nil
}

// isDocumentSeeded probes the store with the document's first non-blank line
// and reports whether a same-titled document already scores above the probe
// threshold.
func isDocumentSeeded(ctx context.Context, store *Store, doc seedDocument) (bool, error) {
	probe := firstNonBlankLine(doc.content)
	if probe == "" {
		return false, nil
	}

	results, err := store.Search(ctx, probe, model.SearchOptions{
		Limit:          probeLimit,
		ScoreThreshold: probeThreshold,
	})
	if err != nil {
		return false, err
	}
	for _, c := range results {
		if c.Title == doc.title {
			return true, nil
		}
	}
	return false, nil
}

func firstNonBlankLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

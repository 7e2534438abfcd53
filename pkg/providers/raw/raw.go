// Package raw 提供直通后端：把每个请求片段原样回显为译文。
// 用于 --dry-run 演练批次划分与匹配链路，也是测试里的规范后端。
package raw

import (
	"context"

	"github.com/nerdneilsfield/go-webpage-translator/pkg/protocol"
	"github.com/nerdneilsfield/go-webpage-translator/pkg/providers"
)

// Provider 直通提供商
type Provider struct {
	// Suffix 附加在每条"译文"后，便于肉眼区分走过链路的文本
	Suffix string
}

var _ providers.Provider = (*Provider)(nil)

// New 创建直通提供商
func New() *Provider {
	return &Provider{}
}

// GetName 返回提供商名称
func (p *Provider) GetName() string {
	return "raw"
}

// Translate 解出请求片段并原样编码为响应负载
func (p *Provider) Translate(_ context.Context, req *providers.Request) (*providers.Response, error) {
	items := protocol.DecodeRequest(req.Payload)
	translations := make([]string, len(items))
	for i, item := range items {
		translations[i] = item + p.Suffix
	}
	return &providers.Response{
		Payload: protocol.EncodeResponse(items, translations),
	}, nil
}

// GetModels 直通后端没有模型
func (p *Provider) GetModels(_ context.Context) ([]string, error) {
	return nil, nil
}

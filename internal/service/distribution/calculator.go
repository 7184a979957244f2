// Package distribution 分润服务
package distribution

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/linchen2024/club-admin-backend/internal/models"
)

// Allocation 单个角色的分润分配
type Allocation struct {
	RoleCode      string  `json:"role_code"`
	RoleCategory  string  `json:"role_category"`
	BeneficiaryID string  `json:"beneficiary_id"`
	Percentage    float64 `json:"percentage"`
	Amount        float64 `json:"amount"`
}

// SkippedShare 未能分配的角色及原因
type SkippedShare struct {
	RoleCode string `json:"role_code"`
	Reason   string `json:"reason"`
}

// CalculationResult 分润计算结果
type CalculationResult struct {
	Allocations     []Allocation   `json:"allocations"`
	Skipped         []SkippedShare `json:"skipped"`
	TotalAmount     float64        `json:"total_amount"`
	DistributedSum  float64        `json:"distributed_sum"`
	RemainingAmount float64        `json:"remaining_amount"`
	IsValid         bool           `json:"is_valid"`
}

// Calculator 分润计算器
// 按启用配置计算每个角色的分配金额，逐项四舍五入到分
type Calculator struct {
	resolver BeneficiaryResolver
}

// NewCalculator 创建分润计算器
func NewCalculator(resolver BeneficiaryResolver) *Calculator {
	return &Calculator{resolver: resolver}
}

// Calculate 计算一笔订单金额在配置下的分润
// 无法解析受益人或比例为零的角色记入 Skipped，不视为错误
func (c *Calculator) Calculate(ctx context.Context, config *models.DistributionConfig, totalAmount float64, inviterID *string) (*CalculationResult, error) {
	result := &CalculationResult{
		TotalAmount: totalAmount,
	}

	// 按角色编码排序保证结果顺序确定
	codes := make([]string, 0, len(config.RoleShares))
	for code := range config.RoleShares {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	total := decimal.NewFromFloat(totalAmount)
	hundred := decimal.NewFromInt(100)
	distributed := decimal.Zero

	for _, code := range codes {
		pct := config.RoleShares[code]
		if pct <= 0 {
			result.Skipped = append(result.Skipped, SkippedShare{RoleCode: code, Reason: SkipReasonZeroShare})
			continue
		}

		beneficiaryID, category, skipReason, err := c.resolver.Resolve(ctx, ResolveInput{
			RoleCode:  code,
			InviterID: inviterID,
		})
		if err != nil {
			return nil, err
		}
		if skipReason != "" {
			result.Skipped = append(result.Skipped, SkippedShare{RoleCode: code, Reason: skipReason})
			continue
		}

		// 单项金额四舍五入到两位小数
		amount := total.Mul(decimal.NewFromFloat(pct)).Div(hundred).Round(2)
		distributed = distributed.Add(amount)

		result.Allocations = append(result.Allocations, Allocation{
			RoleCode:      code,
			RoleCategory:  category,
			BeneficiaryID: beneficiaryID,
			Percentage:    pct,
			Amount:        amount.InexactFloat64(),
		})
	}

	result.DistributedSum = distributed.InexactFloat64()
	result.RemainingAmount = total.Sub(distributed).Round(2).InexactFloat64()
	// 配置比例合法且分配不超过订单金额时结果有效
	result.IsValid = config.RoleShares.Total() <= 100 && distributed.LessThanOrEqual(total)

	return result, nil
}

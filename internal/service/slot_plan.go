package service

import (
	"regexp"
	"strconv"
	"strings"

	"revu_farm_v1_202609/internal/model"
)

// 排槽：商品创建时把总购买数按日别计划切成若干日组，
// 每组一个上传口令，槽位号全商品内 1 起连续

var dailyJunkRe = regexp.MustCompile(`[^0-9/]`)

// ParseTotalCount 解析总购买数自由文本，空或不可解析按 0
func ParseTotalCount(raw string) int {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// ParseDailyCounts 解析日别购买数序列
// "6/6" -> [6 6]；"1/3/4/2" -> [1 3 4 2]；"20" -> [20]；"" -> []
// 斜杠以外的非数字字符先剔除
func ParseDailyCounts(raw string) []int {
	cleaned := dailyJunkRe.ReplaceAllString(raw, "")
	if cleaned == "" {
		return []int{}
	}

	counts := make([]int, 0, 4)
	for _, part := range strings.Split(cleaned, "/") {
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			continue
		}
		counts = append(counts, n)
	}
	return counts
}

// BuildSlots 按商品的总数/日别计划生成槽位
// tokenFn 给每个日组生成一个上传口令
// 日别数是人填的，合计可能超过总数：槽位号到达总数即停
func BuildSlots(item *model.Item, tokenFn func() string) []model.ItemSlot {
	total := item.TotalCount
	if total <= 0 {
		return nil
	}

	groups := make([]int, len(item.DailyPlan))
	for i, n := range item.DailyPlan {
		groups[i] = int(n)
	}
	// 没填日别计划就当一天全做完
	if len(groups) == 0 {
		groups = []int{total}
	}

	slots := make([]model.ItemSlot, 0, total)
	slotNo := 0
	for g, count := range groups {
		token := tokenFn()
		for i := 0; i < count; i++ {
			if slotNo >= total {
				return slots
			}
			slotNo++
			slots = append(slots, model.ItemSlot{
				ItemID:          item.ID,
				SlotNumber:      slotNo,
				DayGroup:        g + 1,
				UploadLinkToken: token,
				Status:          model.SlotStatusActive,

				ProductName:    item.ProductName,
				Platform:       item.Platform,
				Price:          item.Price,
				Keyword:        item.Keyword,
				PurchaseOption: item.PurchaseOption,
				IsCourier:      item.IsCourier,
				ProductURL:     item.ProductURL,
				Notes:          item.Notes,
			})
		}
	}
	return slots
}

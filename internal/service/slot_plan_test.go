package service

import (
	"fmt"
	"testing"

	"revu_farm_v1_202609/internal/model"
)

// ==================== 计数解析 ====================

func TestParseTotalCount(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"12", 12},
		{"12개", 12},
		{" 20 ", 20},
		{"", 0},
		{"없음", 0},
	}

	for _, tt := range tests {
		if got := ParseTotalCount(tt.input); got != tt.want {
			t.Errorf("ParseTotalCount(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseDailyCounts(t *testing.T) {
	tests := []struct {
		input string
		want  []int
	}{
		{"6/6", []int{6, 6}},
		{"1/3/4/2", []int{1, 3, 4, 2}},
		{"20", []int{20}},
		{"", []int{}},
		{"6건/6건", []int{6, 6}},
		{"6//6", []int{6, 6}},
		{"/5", []int{5}},
	}

	for _, tt := range tests {
		got := ParseDailyCounts(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("ParseDailyCounts(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseDailyCounts(%q)[%d] = %d, want %d", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

// ==================== 排槽 ====================

func testTokenFn() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("token-%d", n)
	}
}

func TestBuildSlots_DayGroups(t *testing.T) {
	item := &model.Item{
		TotalCount: 12,
		DailyPlan:  []int64{6, 6},
	}
	item.ID = 1

	slots := BuildSlots(item, testTokenFn())

	if len(slots) != 12 {
		t.Fatalf("slots = %d, want 12", len(slots))
	}

	// 槽位号全商品内 1 起连续
	for i, slot := range slots {
		if slot.SlotNumber != i+1 {
			t.Errorf("slot[%d].SlotNumber = %d, want %d", i, slot.SlotNumber, i+1)
		}
	}

	// 前 6 个在日组 1，后 6 个在日组 2，各组共享口令
	if slots[0].DayGroup != 1 || slots[5].DayGroup != 1 {
		t.Error("前 6 个槽位应在日组 1")
	}
	if slots[6].DayGroup != 2 || slots[11].DayGroup != 2 {
		t.Error("后 6 个槽位应在日组 2")
	}
	if slots[0].UploadLinkToken != slots[5].UploadLinkToken {
		t.Error("同日组应共享上传口令")
	}
	if slots[0].UploadLinkToken == slots[6].UploadLinkToken {
		t.Error("不同日组不应共享上传口令")
	}
}

func TestBuildSlots_CapAtTotal(t *testing.T) {
	// 日别合计 10 超过总数 8：到 8 即停
	item := &model.Item{
		TotalCount: 8,
		DailyPlan:  []int64{5, 5},
	}
	item.ID = 1

	slots := BuildSlots(item, testTokenFn())

	if len(slots) != 8 {
		t.Fatalf("slots = %d, want 8", len(slots))
	}
	if slots[7].DayGroup != 2 || slots[7].SlotNumber != 8 {
		t.Errorf("最后一个槽位 group=%d no=%d, want group=2 no=8", slots[7].DayGroup, slots[7].SlotNumber)
	}
}

func TestBuildSlots_NoPlan(t *testing.T) {
	// 没填日别计划：一个日组装下全部
	item := &model.Item{TotalCount: 5}
	item.ID = 1

	slots := BuildSlots(item, testTokenFn())

	if len(slots) != 5 {
		t.Fatalf("slots = %d, want 5", len(slots))
	}
	for _, slot := range slots {
		if slot.DayGroup != 1 {
			t.Errorf("slot %d group = %d, want 1", slot.SlotNumber, slot.DayGroup)
		}
	}
}

func TestBuildSlots_ZeroTotal(t *testing.T) {
	item := &model.Item{TotalCount: 0, DailyPlan: []int64{3}}
	if slots := BuildSlots(item, testTokenFn()); len(slots) != 0 {
		t.Errorf("总数为 0 不应生成槽位，得到 %d 个", len(slots))
	}
}

func TestBuildSlots_CopiesSnapshot(t *testing.T) {
	item := &model.Item{
		TotalCount:  2,
		ProductName: "프리미엄 물티슈",
		Platform:    "coupang",
		Price:       "12,900",
		Keyword:     "물티슈 대용량",
		IsCourier:   true,
	}
	item.ID = 7

	slots := BuildSlots(item, testTokenFn())

	if len(slots) != 2 {
		t.Fatalf("slots = %d, want 2", len(slots))
	}
	s := slots[0]
	if s.ItemID != 7 || s.ProductName != item.ProductName || s.Platform != "coupang" ||
		s.Price != item.Price || s.Keyword != item.Keyword || !s.IsCourier {
		t.Errorf("快照字段未完整复制: %+v", s)
	}
	if s.Status != model.SlotStatusActive {
		t.Errorf("status = %s, want %s", s.Status, model.SlotStatusActive)
	}
}

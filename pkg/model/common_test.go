package model

import (
	"testing"
	"time"
)

func TestDateRange_Dates(t *testing.T) {
	dr := DateRange{StartDate: "2026-01-12", EndDate: "2026-01-14"}

	dates, err := dr.Dates()
	if err != nil {
		t.Fatalf("Dates() error = %v", err)
	}

	expected := []string{"2026-01-12", "2026-01-13", "2026-01-14"}
	if len(dates) != len(expected) {
		t.Fatalf("len(dates) = %d, expected %d", len(dates), len(expected))
	}
	for i, d := range expected {
		if dates[i] != d {
			t.Errorf("dates[%d] = %s, expected %s", i, dates[i], d)
		}
	}
}

func TestDateRange_Dates_SingleDay(t *testing.T) {
	dr := DateRange{StartDate: "2026-01-12", EndDate: "2026-01-12"}

	dates, err := dr.Dates()
	if err != nil {
		t.Fatalf("Dates() error = %v", err)
	}
	if len(dates) != 1 || dates[0] != "2026-01-12" {
		t.Errorf("单日范围应返回恰好一天, got %v", dates)
	}
}

func TestDateRange_Dates_CrossMonth(t *testing.T) {
	dr := DateRange{StartDate: "2026-01-30", EndDate: "2026-02-02"}

	dates, err := dr.Dates()
	if err != nil {
		t.Fatalf("Dates() error = %v", err)
	}
	if len(dates) != 4 {
		t.Errorf("len(dates) = %d, expected 4", len(dates))
	}
	if dates[2] != "2026-02-01" {
		t.Errorf("跨月日期 = %s, expected 2026-02-01", dates[2])
	}
}

func TestDateRange_Dates_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"结束早于开始", "2026-01-14", "2026-01-12"},
		{"无效的开始日期", "not-a-date", "2026-01-12"},
		{"无效的结束日期", "2026-01-12", "2026/01/14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dr := DateRange{StartDate: tt.start, EndDate: tt.end}
			if _, err := dr.Dates(); err == nil {
				t.Error("应返回错误")
			}
		})
	}
}

func TestDateRange_ContainsDate(t *testing.T) {
	dr := DateRange{StartDate: "2026-01-12", EndDate: "2026-01-18"}

	tests := []struct {
		date     string
		expected bool
	}{
		{"2026-01-12", true},
		{"2026-01-15", true},
		{"2026-01-18", true},
		{"2026-01-11", false},
		{"2026-01-19", false},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			if result := dr.ContainsDate(tt.date); result != tt.expected {
				t.Errorf("ContainsDate(%s) = %v, expected %v", tt.date, result, tt.expected)
			}
		})
	}
}

func TestTimeRange_Overlaps(t *testing.T) {
	day, err := time.Parse(DateFormat, "2026-01-12")
	if err != nil {
		t.Fatalf("解析日期失败: %v", err)
	}

	mk := func(startH, endH int) TimeRange {
		return TimeRange{
			Start: day.Add(time.Duration(startH) * time.Hour),
			End:   day.Add(time.Duration(endH) * time.Hour),
		}
	}

	a := mk(8, 16)
	b := mk(16, 23)
	c := mk(12, 18)

	if a.Overlaps(b) {
		t.Error("首尾相接的区间不应重叠")
	}
	if !a.Overlaps(c) || !c.Overlaps(b) {
		t.Error("交叉区间应重叠")
	}
}

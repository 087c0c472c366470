package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"voteroom_web/internal/apperrors"
)

// 匯入檔的欄位別名表，英文與越南文表頭都對應到同一個標準欄位
// 表頭不在表中時整個匯入會被拒絕，而不是默默丟棄該欄
var candidateHeaderAliases = map[string]string{
	"name":   "name",
	"tên":    "name",
	"avatar": "avatar",
	"ảnh":    "avatar",
	"intro":  "intro",
	"mô tả":  "intro",
	"group":  "group",
	"nhóm":   "group",
}

var userHeaderAliases = map[string]string{
	"username": "username",
	"name":     "name",
	"tên":      "name",
}

// normalizeHeader 清理表頭：去除 BOM、前後空白、外層引號並轉小寫
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\uFEFF")
	h = strings.TrimSpace(h)
	h = strings.Trim(h, `"`)
	return strings.ToLower(h)
}

// parseSheet 讀取試算表的第一個工作表，回傳以標準欄位為 key 的資料列
// 全空的列會被略過，空白表頭（尾端多餘的欄）直接忽略
func parseSheet(file io.Reader, aliases map[string]string) ([]map[string]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, apperrors.New(apperrors.Validation, "無法讀取上傳的檔案，請確認是 Excel 格式！")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.New(apperrors.Validation, "檔案中沒有工作表！")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, apperrors.New(apperrors.Validation, "檔案是空的或沒有資料列！")
	}

	header := rows[0]
	fields := make([]string, len(header))
	for i, h := range header {
		clean := normalizeHeader(h)
		if clean == "" {
			continue
		}
		field, ok := aliases[clean]
		if !ok {
			return nil, apperrors.New(apperrors.Validation,
				fmt.Sprintf("無法辨識的欄位：%s", strings.TrimSpace(h)))
		}
		fields[i] = field
	}

	var records []map[string]string
	for _, row := range rows[1:] {
		record := make(map[string]string)
		empty := true
		for i, cell := range row {
			if i >= len(fields) || fields[i] == "" {
				continue
			}
			value := strings.TrimSpace(cell)
			if value != "" {
				empty = false
			}
			if value != "" || record[fields[i]] == "" {
				record[fields[i]] = value
			}
		}
		if empty {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

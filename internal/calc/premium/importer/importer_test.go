package importer

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xuri/excelize/v2"

	"Ech2o/internal/calc/aop"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

var sample = [][]any{
	{"flowrate", "cod_inlet", "cod_target", "initial_ph", "reactor_size"},
	{10, 1000, 75, 7, 1.5},
	{"abc", 1000, 75, 7, 1.5},
	{40, 800, 50},
	{},
	{20, 500, 600, 7, 1.5},
	{30, 900, 60, 6.5, 2},
}

func TestRead(t *testing.T) {
	sheet, err := Read(workbook(t, sample))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(sheet.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(sheet.Items))
	}
	wantRows := []int{2, 4, 7}
	for i, n := range wantRows {
		if sheet.Rows[i] != n {
			t.Errorf("rows[%d] = %d, want %d", i, sheet.Rows[i], n)
		}
	}
	if got := sheet.Items[1]; got.InitialPH != 7 || got.ReactorSizeM3 != 1.5 {
		t.Errorf("blank columns did not default: %+v", got)
	}
	if got := sheet.Items[2]; got.ReactorSizeM3 != 2 || got.InitialPH != 6.5 {
		t.Errorf("row 7 = %+v", got)
	}
	if len(sheet.Skipped) != 2 || sheet.Skipped[0].Row != 3 || sheet.Skipped[1].Row != 6 {
		t.Errorf("skipped = %+v", sheet.Skipped)
	}
}

func TestReadRejectsHeaderOnly(t *testing.T) {
	if _, err := Read(workbook(t, sample[:1])); err == nil {
		t.Fatal("expected error for a sheet without data rows")
	}
	if _, err := Read(bytes.NewReader([]byte("not a workbook"))); err == nil {
		t.Fatal("expected error for a non-xlsx upload")
	}
}

func upload(t *testing.T, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "scenarios.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(data)
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/tools/aop/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImportHandler(t *testing.T) {
	h := &Handler{Inputs: &aop.Handler{Defaults: aop.DefaultInput()}}
	rr := httptest.NewRecorder()

	h.Import(rr, upload(t, workbook(t, sample).Bytes()))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var res Result
	if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Count != 3 || len(res.Skipped) != 2 {
		t.Errorf("count = %d, skipped = %d", res.Count, len(res.Skipped))
	}

	rr = httptest.NewRecorder()
	h.Import(rr, httptest.NewRequest(http.MethodPost, "/api/tools/aop/import", nil))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing file status = %d", rr.Code)
	}
}

func TestImportHandlerAllRowsSkipped(t *testing.T) {
	h := &Handler{Inputs: &aop.Handler{Defaults: aop.DefaultInput()}}
	rows := [][]any{sample[0], {"abc", 1000, 75, 7, 1.5}, {20, 500, 600, 7, 1.5}}
	rr := httptest.NewRecorder()

	h.Import(rr, upload(t, workbook(t, rows).Bytes()))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var res Result
	if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Count != 0 || len(res.Skipped) != 2 {
		t.Errorf("count = %d, skipped = %d", res.Count, len(res.Skipped))
	}
	if res.Cheapest != -1 {
		t.Errorf("cheapest = %d, want -1 with no results", res.Cheapest)
	}
}

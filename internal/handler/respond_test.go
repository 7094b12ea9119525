package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/roster/roster/pkg/errors"
)

func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      *errors.AppError
		expected int
	}{
		{"资源不存在", errors.NotFound("排班方案", "x"), http.StatusNotFound},
		{"求解冲突", errors.SolveInProgress("x"), http.StatusConflict},
		{"输入无效", errors.InvalidInput("id", "格式错误"), http.StatusBadRequest},
		{"内部错误", errors.New(errors.CodeInternal, "boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, tt.err)

			if rec.Code != tt.expected {
				t.Errorf("status = %d, expected %d", rec.Code, tt.expected)
			}

			var body map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("响应应为合法JSON: %v", err)
			}
			if body["error"] != true {
				t.Error("错误响应应带 error:true")
			}
			if body["code"] != string(tt.err.Code) {
				t.Errorf("code = %v, expected %s", body["code"], tt.err.Code)
			}
		})
	}
}

func TestRespondError_WrapsPlainError(t *testing.T) {
	rec := httptest.NewRecorder()

	// 非 AppError 按内部错误处理
	respondError(rec, &json.SyntaxError{})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, expected 500", rec.Code)
	}
}

func TestPathID(t *testing.T) {
	id := uuid.New()

	r := httptest.NewRequest("GET", "/api/v1/schemas/"+id.String()+"/solve", nil)
	r.SetPathValue("id", id.String())

	got, err := pathID(r, "id")
	if err != nil {
		t.Fatalf("pathID() error = %v", err)
	}
	if got != id {
		t.Errorf("pathID() = %s, expected %s", got, id)
	}
}

func TestPathID_Invalid(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/schemas/not-a-uuid/solve", nil)
	r.SetPathValue("id", "not-a-uuid")

	_, err := pathID(r, "id")
	if err == nil {
		t.Fatal("无效UUID应返回错误")
	}
	if !errors.Is(err, errors.CodeInvalidInput) {
		t.Errorf("错误码 = %v, expected INVALID_INPUT", errors.GetCode(err))
	}
}

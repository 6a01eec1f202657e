package tests

import (
	"net/http"
	"testing"

	. "github.com/trezcool/mazoezi/apps/api/echo"
)

func Test_server_home(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)

	wantData := marchallObj(t, map[string]string{
		"message": "Welcome to " + conf.AppName + " API!",
		"version": conf.Build,
	})
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: wantData}, rec)
}

func Test_server_checkRole(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name: "allowlisted username resolves to teacher", path: "/api/check-role?username=teacher_001",
			wantCode: http.StatusOK, wantData: marchallObj(t, CheckRoleResponse{Username: "teacher_001", Role: "teacher"}),
		},
		{
			name: "unknown username resolves to student", path: "/api/check-role?username=student_042",
			wantCode: http.StatusOK, wantData: marchallObj(t, CheckRoleResponse{Username: "student_042", Role: "student"}),
		},
		{
			name: "case matters", path: "/api/check-role?username=Teacher_001",
			wantCode: http.StatusOK, wantData: marchallObj(t, CheckRoleResponse{Username: "Teacher_001", Role: "student"}),
		},
		{
			name: "missing username resolves to student", path: "/api/check-role",
			wantCode: http.StatusOK, wantData: marchallObj(t, CheckRoleResponse{Role: "student"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

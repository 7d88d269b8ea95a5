package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/mhnazary/school-managment-system/config"
	"github.com/mhnazary/school-managment-system/internal/handlers"
	"github.com/mhnazary/school-managment-system/internal/routes"
	"github.com/mhnazary/school-managment-system/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Teacher{},
		&models.Class{},
		&models.Student{},
		&models.TuitionPayment{},
		&models.SalaryPayment{},
		&models.Expense{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	config.DB = db
	config.RDB = nil

	handlers.RegisterValidators()
	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

func seedUser(t *testing.T, username, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{Username: username, Password: string(hash), Role: role}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func login(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(gin.H{"username": username, "password": password})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.Token
}

func doJSON(r *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := newTestRouter(t)
	seedUser(t, "administrator", "secret123", models.RoleAdministrator)

	body, _ := json.Marshal(gin.H{"username": "administrator", "password": "wrong"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(r, http.MethodGet, "/api/teachers", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestSalaryPaymentDuplicateInstallment(t *testing.T) {
	r := newTestRouter(t)
	seedUser(t, "administrator", "secret123", models.RoleAdministrator)
	token := login(t, r, "administrator", "secret123")

	teacher := models.Teacher{
		FirstName:      "فاطمه",
		LastName:       "احمدی",
		FatherName:     "رسول",
		Specialization: "ریاضی",
		Degree:         "لیسانس",
		MonthlySalary:  10000,
		Phone:          "0700000000",
	}
	if err := config.DB.Create(&teacher).Error; err != nil {
		t.Fatalf("seed teacher: %v", err)
	}

	payment := gin.H{
		"teacherId":   teacher.ID,
		"installment": "1402/7",
		"amount":      4000,
		"method":      models.MethodCash,
	}
	if w := doJSON(r, http.MethodPost, "/api/salary-payments", token, payment); w.Code != http.StatusCreated {
		t.Fatalf("first payment returned %d: %s", w.Code, w.Body.String())
	}
	if w := doJSON(r, http.MethodPost, "/api/salary-payments", token, payment); w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate installment returned %d, want 400", w.Code)
	}

	padded := gin.H{
		"teacherId":   teacher.ID,
		"installment": "1402/07",
		"amount":      4000,
		"method":      models.MethodCash,
	}
	if w := doJSON(r, http.MethodPost, "/api/salary-payments", token, padded); w.Code != http.StatusBadRequest {
		t.Fatalf("zero-padded duplicate returned %d, want 400", w.Code)
	}

	other := gin.H{
		"teacherId":   teacher.ID,
		"installment": "1402/8",
		"amount":      4000,
		"method":      models.MethodCash,
	}
	if w := doJSON(r, http.MethodPost, "/api/salary-payments", token, other); w.Code != http.StatusCreated {
		t.Fatalf("different installment returned %d: %s", w.Code, w.Body.String())
	}
}

func TestSalaryPaymentRejectsMalformedInstallment(t *testing.T) {
	r := newTestRouter(t)
	seedUser(t, "administrator", "secret123", models.RoleAdministrator)
	token := login(t, r, "administrator", "secret123")

	payment := gin.H{
		"teacherId":   1,
		"installment": "1402/13",
		"amount":      4000,
		"method":      models.MethodCash,
	}
	if w := doJSON(r, http.MethodPost, "/api/salary-payments", token, payment); w.Code != http.StatusBadRequest {
		t.Fatalf("malformed installment returned %d, want 400", w.Code)
	}
}

func TestAdminGateOnMutations(t *testing.T) {
	r := newTestRouter(t)
	seedUser(t, "admin", "secret123", models.RoleAdmin)
	token := login(t, r, "admin", "secret123")

	teacher := models.Teacher{
		FirstName:      "کریم",
		LastName:       "نظری",
		FatherName:     "ولی",
		Specialization: "فزیک",
		Degree:         "ماستر",
		MonthlySalary:  8000,
		Phone:          "0700000001",
	}
	if err := config.DB.Create(&teacher).Error; err != nil {
		t.Fatalf("seed teacher: %v", err)
	}

	w := doJSON(r, http.MethodDelete, "/api/teachers/1", token, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-administrator delete returned %d, want 403", w.Code)
	}
}

func TestTeacherDeleteBlockedByPayments(t *testing.T) {
	r := newTestRouter(t)
	seedUser(t, "administrator", "secret123", models.RoleAdministrator)
	token := login(t, r, "administrator", "secret123")

	teacher := models.Teacher{
		FirstName:      "مریم",
		LastName:       "حسینی",
		FatherName:     "یوسف",
		Specialization: "کیمیا",
		Degree:         "لیسانس",
		MonthlySalary:  9000,
		Phone:          "0700000002",
	}
	if err := config.DB.Create(&teacher).Error; err != nil {
		t.Fatalf("seed teacher: %v", err)
	}
	payment := gin.H{
		"teacherId":   teacher.ID,
		"installment": "1402/1",
		"amount":      9000,
		"method":      models.MethodBank,
	}
	if w := doJSON(r, http.MethodPost, "/api/salary-payments", token, payment); w.Code != http.StatusCreated {
		t.Fatalf("payment returned %d: %s", w.Code, w.Body.String())
	}

	w := doJSON(r, http.MethodDelete, "/api/teachers/1", token, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("delete with payments returned %d, want 409", w.Code)
	}
}

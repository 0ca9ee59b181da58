package inventory_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/onboarding-tracker/internal"
	"github.com/frahmantamala/onboarding-tracker/internal/core/datamodel"
	userDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/onboarding-tracker/internal/inventory"
	inventoryPostgres "github.com/frahmantamala/onboarding-tracker/internal/inventory/postgres"
)

var _ = Describe("Inventory Handler Integration", func() {
	var (
		db       *gorm.DB
		router   *chi.Mux
		hr       *userDatamodel.User
		employee *userDatamodel.User
	)

	as := func(u *userDatamodel.User) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := internal.ContextWithIdentity(r.Context(), &internal.Identity{UserID: u.ID, Email: u.Email, Role: u.Role})
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		}
	}

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf).WithContext(context.Background())
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(datamodel.All()...)).To(Succeed())

		hr = &userDatamodel.User{Email: "hr@example.com", Name: "HR", PasswordHash: "x", Role: internal.RoleHR, IsActive: true}
		employee = &userDatamodel.User{Email: "u1@example.com", Name: "U1", PasswordHash: "x", Role: internal.RoleEmployee, IsActive: true}
		Expect(db.Create(hr).Error).To(Succeed())
		Expect(db.Create(employee).Error).To(Succeed())

		service := inventory.NewService(inventoryPostgres.NewInventoryRepository(db), nil, slogger)
		handler := inventory.NewHandler(service)

		router = chi.NewRouter()
		router.Group(func(r chi.Router) {
			r.Use(as(hr))
			r.Post("/equipment", handler.CreateEquipment)
			r.Post("/assignments", handler.Assign)
			r.Get("/assignments", handler.ListLedger)
			r.Patch("/assignments/{id}/return", handler.MarkReturned)
		})
		router.Group(func(r chi.Router) {
			r.Use(as(employee))
			r.Patch("/assignments/{id}/ack", handler.Acknowledge)
			r.Get("/me/equipment", handler.ListMine)
		})
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("serves the assignment lifecycle over HTTP", func() {
		w := do(http.MethodPost, "/equipment", map[string]string{"name": "MacBook Air"})
		Expect(w.Code).To(Equal(http.StatusCreated))
		var equipment inventory.Equipment
		Expect(json.NewDecoder(w.Body).Decode(&equipment)).To(Succeed())

		w = do(http.MethodPost, "/assignments", map[string]int64{"userId": employee.ID, "equipmentId": equipment.ID})
		Expect(w.Code).To(Equal(http.StatusCreated))
		var created inventory.AssignResponse
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.ID).To(BeNumerically(">", 0))

		w = do(http.MethodPost, "/assignments", map[string]int64{"userId": employee.ID, "equipmentId": equipment.ID})
		Expect(w.Code).To(Equal(http.StatusConflict))

		w = do(http.MethodPost, "/assignments", map[string]int64{"userId": employee.ID, "equipmentId": 9999})
		Expect(w.Code).To(Equal(http.StatusNotFound))

		ackPath := "/assignments/" + strconv.FormatInt(created.ID, 10) + "/ack"
		Expect(do(http.MethodPatch, ackPath, nil).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodPatch, ackPath, nil).Code).To(Equal(http.StatusOK))

		w = do(http.MethodGet, "/me/equipment", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		var mine struct {
			Assignments []inventory.LedgerEntry `json:"assignments"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&mine)).To(Succeed())
		Expect(mine.Assignments).To(HaveLen(1))
		Expect(mine.Assignments[0].EmployeeAck).To(BeTrue())
		Expect(mine.Assignments[0].EquipmentName).To(Equal("MacBook Air"))

		returnPath := "/assignments/" + strconv.FormatInt(created.ID, 10) + "/return"
		Expect(do(http.MethodPatch, returnPath, nil).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodPatch, returnPath, nil).Code).To(Equal(http.StatusConflict))
		Expect(do(http.MethodPatch, ackPath, nil).Code).To(Equal(http.StatusConflict))

		w = do(http.MethodGet, "/assignments?open=true", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		var open struct {
			Assignments []inventory.LedgerEntry `json:"assignments"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&open)).To(Succeed())
		Expect(open.Assignments).To(BeEmpty())
	})

	It("rejects malformed ids and bodies", func() {
		Expect(do(http.MethodPatch, "/assignments/abc/ack", nil).Code).To(Equal(http.StatusBadRequest))

		req := httptest.NewRequest(http.MethodPost, "/assignments", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		var body internal.Response
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.Error.Type).To(Equal(internal.ErrorTypeValidation))
	})

	It("reports which field failed in the error message", func() {
		w := do(http.MethodPost, "/equipment", map[string]string{"name": "  "})
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		var body struct {
			Error struct {
				Message string `json:"message"`
				Details struct {
					Errors []internal.ValidationError `json:"errors"`
				} `json:"details"`
			} `json:"error"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.Error.Message).To(Equal("name is required"))
		Expect(body.Error.Details.Errors).To(HaveLen(1))
		Expect(body.Error.Details.Errors[0].Field).To(Equal("name"))
	})
})

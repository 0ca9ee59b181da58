package document_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/onboarding-tracker/internal"
	userDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/onboarding-tracker/internal/document"
)

var _ = Describe("Document Handler Integration", func() {
	var (
		env    *testEnv
		router *chi.Mux
	)

	as := func(u *userDatamodel.User) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithIdentity(r.Context(), identityOf(u))))
			})
		}
	}

	multipartBody := func(fields map[string]string, fileName, content string) (*bytes.Buffer, string) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		for k, v := range fields {
			Expect(mw.WriteField(k, v)).To(Succeed())
		}
		if fileName != "" {
			part, err := mw.CreateFormFile("file", fileName)
			Expect(err).NotTo(HaveOccurred())
			_, err = part.Write([]byte(content))
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(mw.Close()).To(Succeed())
		return &buf, mw.FormDataContentType()
	}

	upload := func(fields map[string]string, fileName, content string) *httptest.ResponseRecorder {
		body, contentType := multipartBody(fields, fileName, content)
		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		env = newTestEnv()
		handler := document.NewHandler(env.service(document.Policy{AllowReReview: true}), 1<<20)

		router = chi.NewRouter()
		router.Group(func(r chi.Router) {
			r.Use(as(env.u1))
			r.Post("/documents", handler.Upload)
			r.Get("/me/documents", handler.ListMine)
			r.Get("/documents/{id}/file", handler.Download)
		})
		router.Group(func(r chi.Router) {
			r.Use(as(env.hr))
			r.Get("/documents/pending", handler.ListPending)
			r.Patch("/documents/{id}/review", handler.Review)
		})
		router.Group(func(r chi.Router) {
			r.Use(as(env.u2))
			r.Get("/other/documents/{id}", handler.Get)
		})
	})

	AfterEach(func() {
		env.close()
	})

	It("returns 201 with the id and file reference", func() {
		w := upload(map[string]string{"docType": "ID_CARD"}, "id.png", "png-bytes")
		Expect(w.Code).To(Equal(http.StatusCreated))

		var resp document.UploadResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.ID).To(BeNumerically(">", 0))
		Expect(resp.FileRef).To(HaveSuffix(".png"))

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents/"+strconv.FormatInt(resp.ID, 10)+"/file", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(Equal("png-bytes"))

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/other/documents/"+strconv.FormatInt(resp.ID, 10), nil))
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("returns 400 when docType is missing", func() {
		w := upload(map[string]string{}, "id.png", "png-bytes")
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		var body internal.Response
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.Error.Code).To(Equal(internal.ErrCodeMissingDocType))
	})

	It("returns 400 when no file is attached", func() {
		w := upload(map[string]string{"docType": "ID_CARD"}, "", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		var body internal.Response
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.Error.Code).To(Equal(internal.ErrCodeMissingFile))
	})

	It("returns 400 for non-multipart bodies", func() {
		req := httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(`{"docType":"ID_CARD"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("lets HR review from the pending queue", func() {
		w := upload(map[string]string{"docType": "NDA"}, "nda.pdf", "%PDF")
		Expect(w.Code).To(Equal(http.StatusCreated))
		var resp document.UploadResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents/pending", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		var queue struct {
			Documents []document.PendingDocument `json:"documents"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&queue)).To(Succeed())
		Expect(queue.Documents).To(HaveLen(1))
		Expect(queue.Documents[0].UserEmail).To(Equal("u1@example.com"))

		reviewPath := "/documents/" + strconv.FormatInt(resp.ID, 10) + "/review"
		req := httptest.NewRequest(http.MethodPatch, reviewPath, strings.NewReader(`{"status":"MAYBE"}`))
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		req = httptest.NewRequest(http.MethodPatch, reviewPath, strings.NewReader(`{"status":"APPROVED","comment":"ok"}`))
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusOK))
		var reviewed document.Document
		Expect(json.NewDecoder(w.Body).Decode(&reviewed)).To(Succeed())
		Expect(reviewed.Status).To(Equal(document.StatusApproved))

		req = httptest.NewRequest(http.MethodPatch, "/documents/9999/review", strings.NewReader(`{"status":"APPROVED"}`))
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})

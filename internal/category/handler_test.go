package category_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/expensepro/internal/category"
	categoryPostgres "github.com/frahmantamala/expensepro/internal/category/postgres"
	categoryDatamodel "github.com/frahmantamala/expensepro/internal/core/datamodel/category"
	"github.com/frahmantamala/expensepro/internal/transport"
)

func TestCategory(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Category Suite")
}

var _ = Describe("Category Handler Integration", func() {
	var (
		db      *gorm.DB
		repo    category.RepositoryAPI
		service *category.Service
		handler *category.Handler
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&categoryDatamodel.ExpenseCategory{})
		Expect(err).NotTo(HaveOccurred())

		repo = categoryPostgres.NewCategoryRepository(db)
		service = category.NewService(repo, slogger)
		baseHandler := &transport.BaseHandler{Logger: slogger}
		handler = category.NewHandler(baseHandler, service)

		seeded := []*category.Category{
			category.NewCategory("Travel", "Flights, hotels and ground transport"),
			category.NewCategory("Food", "Meals while on company business"),
			category.NewCategory("Office Supplies", "Stationery and small equipment"),
			category.NewCategory("Other", "Anything that fits no other bucket"),
		}
		for _, cat := range seeded {
			Expect(repo.Create(category.ToDataModel(cat))).To(Succeed())
		}

		retired := category.NewCategory("Entertainment", "No longer claimable")
		dm := category.ToDataModel(retired)
		Expect(repo.Create(dm)).To(Succeed())
		dm.IsActive = false
		Expect(repo.Update(dm)).To(Succeed())
	})

	It("returns only active categories", func() {
		req := httptest.NewRequest(http.MethodGet, "/categories", nil)
		w := httptest.NewRecorder()

		handler.GetCategories(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))

		var resp category.CategoriesResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())

		names := []string{}
		for _, c := range resp.Categories {
			names = append(names, c.Name)
		}
		Expect(names).To(ConsistOf("Travel", "Food", "Office Supplies", "Other"))
		Expect(names).NotTo(ContainElement("Entertainment"))
	})

	Describe("IsValidCategory", func() {
		It("accepts an active category", func() {
			Expect(service.IsValidCategory("Travel")).To(BeTrue())
		})

		It("rejects an inactive category", func() {
			Expect(service.IsValidCategory("Entertainment")).To(BeFalse())
		})

		It("rejects an unknown category", func() {
			Expect(service.IsValidCategory("Yachts")).To(BeFalse())
		})
	})
})

package storage_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/onboarding-tracker/internal/storage"
)

func TestStorage(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Storage Suite")
}

var _ = Describe("LocalStore", func() {
	var (
		dir   string
		store *storage.LocalStore
		ctx   context.Context
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		dir = GinkgoT().TempDir()
		store, err = storage.NewLocalStore(filepath.Join(dir, "uploads"), 16)
		Expect(err).NotTo(HaveOccurred())
	})

	It("stores a file under an opaque reference and reads it back", func() {
		ref, err := store.Put(ctx, "Passport Scan.PDF", strings.NewReader("scan-bytes"))
		Expect(err).NotTo(HaveOccurred())
		Expect(ref).To(HaveSuffix(".pdf"))
		Expect(ref).NotTo(ContainSubstring("Passport"))

		rc, err := store.Open(ctx, ref)
		Expect(err).NotTo(HaveOccurred())
		defer rc.Close()
		data, err := io.ReadAll(rc)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("scan-bytes"))
	})

	It("gives every upload a distinct reference", func() {
		a, err := store.Put(ctx, "a.png", strings.NewReader("1"))
		Expect(err).NotTo(HaveOccurred())
		b, err := store.Put(ctx, "a.png", strings.NewReader("1"))
		Expect(err).NotTo(HaveOccurred())
		Expect(a).NotTo(Equal(b))
	})

	It("rejects files over the size limit and leaves nothing behind", func() {
		_, err := store.Put(ctx, "big.bin", bytes.NewReader(make([]byte, 17)))
		Expect(err).To(Equal(storage.ErrFileTooLarge))

		entries, err := os.ReadDir(filepath.Join(dir, "uploads"))
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})

	It("drops suspicious extensions", func() {
		ref, err := store.Put(ctx, "evil.p/hp", strings.NewReader("x"))
		Expect(err).NotTo(HaveOccurred())
		Expect(ref).NotTo(ContainSubstring("/"))
	})

	It("refuses references that escape the upload directory", func() {
		_, err := store.Open(ctx, "../secrets")
		Expect(err).To(Equal(storage.ErrInvalidRef))
		Expect(store.Delete(ctx, ".hidden")).To(Equal(storage.ErrInvalidRef))
	})

	It("reports unknown references as not found and deletes idempotently", func() {
		_, err := store.Open(ctx, "missing.pdf")
		Expect(err).To(Equal(storage.ErrBlobNotFound))
		Expect(store.Delete(ctx, "missing.pdf")).To(Succeed())
	})
})

package andotp

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Container", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "andotp")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	layout := func(ctLen int) []byte {
		data := make([]byte, MinBackupSize+ctLen)
		for i := range data {
			data[i] = byte(i)
		}
		return data
	}

	checkLayout := func(c *Container, data []byte) {
		Expect(c.IV[:]).To(Equal(data[:IVSize]))
		Expect(c.Ciphertext).To(Equal(data[IVSize : len(data)-TagSize]))
		Expect(c.Tag[:]).To(Equal(data[len(data)-TagSize:]))
		Expect(c.sealed()).To(Equal(data))
	}

	Context("reading from disk", func() {
		It("splits IV, ciphertext and tag", func() {
			data := layout(40)
			c, err := ReadContainer(writeBackup(dir, data))
			Expect(err).NotTo(HaveOccurred())
			checkLayout(c, data)
		})

		It("accepts a backup with an empty payload", func() {
			data := layout(0)
			c, err := ReadContainer(writeBackup(dir, data))
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Ciphertext).To(BeEmpty())
			checkLayout(c, data)
		})

		It("rejects files shorter than IV and tag", func() {
			for _, size := range []int{0, 1, IVSize, MinBackupSize - 1} {
				_, err := ReadContainer(writeBackup(dir, make([]byte, size)))
				Expect(errors.Is(err, ErrIO)).To(BeTrue(), "size %d", size)
			}
		})

		It("reports a missing file as an I/O error", func() {
			_, err := ReadContainer(filepath.Join(dir, "missing.aes"))
			Expect(errors.Is(err, ErrIO)).To(BeTrue())
			Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
		})
	})

	Context("parsing from memory", func() {
		It("matches the on-disk reader", func() {
			data := layout(17)
			c, err := ParseContainer(data)
			Expect(err).NotTo(HaveOccurred())
			checkLayout(c, data)
		})

		It("copies the ciphertext out of the caller's buffer", func() {
			data := layout(8)
			c, err := ParseContainer(data)
			Expect(err).NotTo(HaveOccurred())
			data[IVSize] ^= 0xff
			Expect(c.Ciphertext[0]).To(Equal(byte(IVSize)))
		})

		It("rejects short input", func() {
			_, err := ParseContainer(bytes.Repeat([]byte{1}, MinBackupSize-1))
			Expect(errors.Is(err, ErrIO)).To(BeTrue())
		})
	})

	It("does not print ciphertext", func() {
		c := &Container{Ciphertext: []byte("secret-ish")}
		Expect(c.String()).To(Equal("andotp.Container{ciphertext: 10 bytes}"))
	})
})

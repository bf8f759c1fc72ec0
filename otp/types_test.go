package otp

import (
	"encoding/json"

	. "github.com/onsi/ginkgo"
	"github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Types", func() {
	table.DescribeTable("ParseType",
		func(in string, want Type) {
			got, err := ParseType(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		table.Entry("upper totp", "TOTP", TOTP),
		table.Entry("lower totp", "totp", TOTP),
		table.Entry("mixed hotp", "HoTp", HOTP),
	)

	It("rejects unknown types", func() {
		for _, in := range []string{"XOTP", "", "STEAM", "TOTP "} {
			_, err := ParseType(in)
			Expect(err).To(HaveOccurred(), in)
		}
	})

	table.DescribeTable("ParseAlgorithm",
		func(in string, want Algorithm) {
			Expect(ParseAlgorithm(in)).To(Equal(want))
		},
		table.Entry("sha1", "SHA1", SHA1),
		table.Entry("sha256 lower", "sha256", SHA256),
		table.Entry("sha512 mixed", "Sha512", SHA512),
		table.Entry("md5 falls back", "md5", SHA1),
		table.Entry("empty falls back", "", SHA1),
		table.Entry("long s is not ascii s", "ſha256", SHA1),
	)

	It("marshals records with symbolic type and algorithm", func() {
		rec := Record{
			Secret:    "ABC",
			Label:     "Name",
			Issuer:    "Issuer",
			Type:      HOTP,
			Digits:    6,
			Algorithm: SHA512,
		}
		out, err := json.Marshal(rec)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(out)).To(ContainSubstring(`"type":"HOTP"`))
		Expect(string(out)).To(ContainSubstring(`"algorithm":"SHA512"`))

		var back Record
		Expect(json.Unmarshal(out, &back)).To(Succeed())
		Expect(back).To(Equal(rec))
	})

	It("omits an absent issuer", func() {
		out, err := json.Marshal(Record{Secret: "X", Label: "SoloLabel", Digits: 6})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(out)).NotTo(ContainSubstring("issuer"))
		Expect(Record{Label: "SoloLabel"}.HasIssuer()).To(BeFalse())
	})

	It("refuses to marshal out-of-range enums", func() {
		_, err := Type(7).MarshalText()
		Expect(err).To(HaveOccurred())
		_, err = Algorithm(9).MarshalText()
		Expect(err).To(HaveOccurred())
		Expect(Type(7).String()).To(Equal("Type(7)"))
	})
})

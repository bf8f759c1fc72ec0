package otp

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("ManualEntry", func() {
	It("applies the Steam preset", func() {
		rec, err := ManualEntry{
			Type:      HOTP,
			Algorithm: SHA512,
			Issuer:    "ignored",
			Label:     "gamer",
			Secret:    "JBSWY3DPEHPK3PXP",
			Digits:    8,
			Period:    60,
			Counter:   12,
			Steam:     true,
		}.Record()
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Type).To(Equal(TOTP))
		Expect(rec.Algorithm).To(Equal(SHA1))
		Expect(rec.Issuer).To(Equal(SteamIssuer))
		Expect(rec.Digits).To(Equal(uint8(SteamDigits)))
		Expect(rec.Period).To(Equal(uint8(DefaultPeriod)))
		Expect(rec.Counter).To(BeZero())
		Expect(rec.Label).To(Equal("gamer"))
	})

	It("keeps the counter for HOTP and drops the period", func() {
		rec, err := ManualEntry{
			Type:    HOTP,
			Label:   "bank",
			Secret:  " ABC ",
			Digits:  6,
			Period:  30,
			Counter: 5,
		}.Record()
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Secret).To(Equal("ABC"))
		Expect(rec.Counter).To(Equal(uint64(5)))
		Expect(rec.Period).To(BeZero())
	})

	It("defaults the TOTP period", func() {
		rec, err := ManualEntry{Type: TOTP, Label: "mail", Secret: "ABC", Digits: 6}.Record()
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Period).To(Equal(uint8(DefaultPeriod)))
	})

	It("rejects incomplete entries", func() {
		_, err := ManualEntry{Label: "x", Digits: 6}.Record()
		Expect(err).To(MatchError("secret cannot be empty"))

		_, err = ManualEntry{Secret: "ABC", Digits: 6}.Record()
		Expect(err).To(HaveOccurred())

		_, err = ManualEntry{Secret: "ABC", Label: "x"}.Record()
		Expect(err).To(MatchError("digits must be at least 1"))

		_, err = ManualEntry{Type: Type(4), Secret: "ABC", Label: "x", Digits: 6}.Record()
		Expect(err).To(HaveOccurred())
	})
})

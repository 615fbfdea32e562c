// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

//go:build integration

package integration

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/shopspring/decimal"

	"github.com/moneyspace/moneyspace/internal/space"
)

var _ = Describe("Transactions", func() {
	ctx := context.Background()

	var sp *space.Space
	var categoryID ulid.ULID

	BeforeEach(func() {
		var err error
		sp, err = env.Lifecycle.Create(ctx, "Ledger", "s3cret-pass")
		Expect(err).NotTo(HaveOccurred())

		cats, err := env.Categories.List(ctx, sp.ID, space.TypeExpense)
		Expect(err).NotTo(HaveOccurred())
		Expect(cats).NotTo(BeEmpty())
		categoryID = cats[0].ID
	})

	AfterEach(func() {
		cleanupSpaces(ctx, env.pool)
	})

	newInput := func() space.NewTransactionInput {
		return space.NewTransactionInput{
			SpaceID:     sp.ID,
			CategoryID:  categoryID,
			Type:        space.TypeExpense,
			Amount:      decimal.RequireFromString("125000.50"),
			Currency:    "VND",
			Description: "groceries",
			Date:        time.Now().UTC(),
			Notes:       "weekly shop",
		}
	}

	It("records a transaction and preserves the exact amount", func() {
		created, err := env.Transactions.Create(ctx, newInput())
		Expect(err).NotTo(HaveOccurred())

		listed, err := env.Transactions.List(ctx, sp.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(listed).To(HaveLen(1))
		Expect(listed[0].Amount.Equal(created.Amount)).To(BeTrue(),
			"want %s, got %s", created.Amount, listed[0].Amount)
		Expect(listed[0].Description).To(Equal("groceries"))
	})

	It("defaults the currency to the space currency", func() {
		in := newInput()
		in.Currency = ""

		created, err := env.Transactions.Create(ctx, in)
		Expect(err).NotTo(HaveOccurred())
		Expect(created.Currency).To(Equal(sp.Currency()))
	})

	It("lists newest date first", func() {
		older := newInput()
		older.Date = time.Now().UTC().Add(-48 * time.Hour)
		older.Description = "older"
		newer := newInput()
		newer.Description = "newer"

		_, err := env.Transactions.Create(ctx, older)
		Expect(err).NotTo(HaveOccurred())
		_, err = env.Transactions.Create(ctx, newer)
		Expect(err).NotTo(HaveOccurred())

		listed, err := env.Transactions.List(ctx, sp.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(listed).To(HaveLen(2))
		Expect(listed[0].Description).To(Equal("newer"))
		Expect(listed[1].Description).To(Equal("older"))
	})

	It("updates a transaction in place", func() {
		created, err := env.Transactions.Create(ctx, newInput())
		Expect(err).NotTo(HaveOccurred())

		in := newInput()
		in.Amount = decimal.RequireFromString("99.9900")
		in.Description = "corrected"

		updated, err := env.Transactions.Update(ctx, created.ID, in)
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.Description).To(Equal("corrected"))
		Expect(updated.Amount.Equal(decimal.RequireFromString("99.99"))).To(BeTrue())
	})

	It("deletes a transaction", func() {
		created, err := env.Transactions.Create(ctx, newInput())
		Expect(err).NotTo(HaveOccurred())

		Expect(env.Transactions.Delete(ctx, created.ID)).To(Succeed())

		listed, err := env.Transactions.List(ctx, sp.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(listed).To(BeEmpty())
	})

	It("rejects a non-positive amount", func() {
		in := newInput()
		in.Amount = decimal.Zero

		_, err := env.Transactions.Create(ctx, in)
		Expect(err).To(HaveOccurred())
	})
})

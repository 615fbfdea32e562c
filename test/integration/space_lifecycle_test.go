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

	"github.com/moneyspace/moneyspace/internal/space"
	spacepg "github.com/moneyspace/moneyspace/internal/space/postgres"
)

var _ = Describe("Space lifecycle", func() {
	ctx := context.Background()

	AfterEach(func() {
		cleanupSpaces(ctx, env.pool)
	})

	Describe("Create", func() {
		It("creates a space with redacted credentials and seeded categories", func() {
			sp, err := env.Lifecycle.Create(ctx, "Household", "s3cret-pass")
			Expect(err).NotTo(HaveOccurred())
			Expect(sp.Name).To(Equal("Household"))
			Expect(sp.PasswordHash).To(BeEmpty(), "projection must not leak the hash")
			Expect(sp.Currencies).NotTo(BeEmpty())

			cats, err := env.Categories.List(ctx, sp.ID, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(cats).To(HaveLen(10))

			income, err := env.Categories.List(ctx, sp.ID, space.TypeIncome)
			Expect(err).NotTo(HaveOccurred())
			Expect(income).To(HaveLen(3))
		})

		It("rejects duplicate default category names per space", func() {
			sp, err := env.Lifecycle.Create(ctx, "Dupes", "s3cret-pass")
			Expect(err).NotTo(HaveOccurred())

			// Seeding again with the same names must converge, not duplicate.
			repo := spacepg.NewCategoryRepository(env.pool)
			Expect(repo.CreateBatch(ctx, space.DefaultCategories(sp.ID))).To(Succeed())

			var count int
			row := env.pool.QueryRow(ctx, "SELECT count(*) FROM categories WHERE space_id = $1", sp.ID.String())
			Expect(row.Scan(&count)).To(Succeed())
			Expect(count).To(Equal(10))
		})

		It("rejects an invalid name", func() {
			_, err := env.Lifecycle.Create(ctx, "   ", "s3cret-pass")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Verify", func() {
		It("accepts the correct password and issues a grant", func() {
			created, err := env.Lifecycle.Create(ctx, "Vault", "correct-horse")
			Expect(err).NotTo(HaveOccurred())

			sp, grant, token, err := env.Lifecycle.Verify(ctx, created.ID, "correct-horse")
			Expect(err).NotTo(HaveOccurred())
			Expect(sp.ID).To(Equal(created.ID))
			Expect(grant).NotTo(BeNil())
			Expect(token).To(HaveLen(64))

			spaceID, err := env.Lifecycle.ValidateGrant(ctx, token)
			Expect(err).NotTo(HaveOccurred())
			Expect(spaceID).To(Equal(created.ID))
		})

		It("rejects a wrong password", func() {
			created, err := env.Lifecycle.Create(ctx, "Vault", "correct-horse")
			Expect(err).NotTo(HaveOccurred())

			_, _, _, err = env.Lifecycle.Verify(ctx, created.ID, "wrong-password")
			Expect(err).To(HaveOccurred())
		})

		It("rejects an unknown space", func() {
			_, _, _, err := env.Lifecycle.Verify(ctx, ulid.Make(), "whatever")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ResetPassword", func() {
		It("rotates the credential and revokes outstanding grants", func() {
			created, err := env.Lifecycle.Create(ctx, "Rotate", "old-password")
			Expect(err).NotTo(HaveOccurred())

			_, _, token, err := env.Lifecycle.Verify(ctx, created.ID, "old-password")
			Expect(err).NotTo(HaveOccurred())
			Expect(token).NotTo(BeEmpty())

			Expect(env.Lifecycle.ResetPassword(ctx, created.ID, "new-password")).To(Succeed())

			// Old password no longer works, new one does.
			_, _, _, err = env.Lifecycle.Verify(ctx, created.ID, "old-password")
			Expect(err).To(HaveOccurred())
			_, _, _, err = env.Lifecycle.Verify(ctx, created.ID, "new-password")
			Expect(err).NotTo(HaveOccurred())

			// The pre-reset grant is gone.
			_, err = env.Lifecycle.ValidateGrant(ctx, token)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Update", func() {
		It("renames the space and replaces its currencies", func() {
			created, err := env.Lifecycle.Create(ctx, "Old Name", "s3cret-pass")
			Expect(err).NotTo(HaveOccurred())

			updated, err := env.Lifecycle.Update(ctx, created.ID, "New Name", []string{"USD", "VND"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("New Name"))
			Expect(updated.Currencies).To(Equal([]string{"USD", "VND"}))
			Expect(updated.Currency()).To(Equal("USD"))
		})
	})

	Describe("Delete", func() {
		It("removes the space and cascades to its children", func() {
			created, err := env.Lifecycle.Create(ctx, "Doomed", "s3cret-pass")
			Expect(err).NotTo(HaveOccurred())

			Expect(env.Lifecycle.Delete(ctx, created.ID)).To(Succeed())

			var count int
			row := env.pool.QueryRow(ctx, "SELECT count(*) FROM categories WHERE space_id = $1", created.ID.String())
			Expect(row.Scan(&count)).To(Succeed())
			Expect(count).To(BeZero())

			row = env.pool.QueryRow(ctx, "SELECT count(*) FROM space_members WHERE space_id = $1", created.ID.String())
			Expect(row.Scan(&count)).To(Succeed())
			Expect(count).To(BeZero())
		})

		It("reports an unknown space", func() {
			Expect(env.Lifecycle.Delete(ctx, ulid.Make())).NotTo(Succeed())
		})
	})

	Describe("Directory", func() {
		It("lists spaces without credentials, newest first", func() {
			first, err := env.Lifecycle.Create(ctx, "First", "s3cret-pass")
			Expect(err).NotTo(HaveOccurred())
			time.Sleep(10 * time.Millisecond) // distinct created_at
			second, err := env.Lifecycle.Create(ctx, "Second", "s3cret-pass")
			Expect(err).NotTo(HaveOccurred())

			summaries, err := env.Directory.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(summaries).To(HaveLen(2))

			Expect(summaries[0].ID).To(Equal(second.ID), "newest space listed first")
			Expect(summaries[1].ID).To(Equal(first.ID))
			for _, s := range summaries {
				Expect(s.Name).NotTo(BeEmpty())
			}
		})
	})
})

package tally

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Aggregate", func() {
	When("the batch is empty", func() {
		It("returns an empty aggregate", func() {
			totals := Aggregate(nil)
			Expect(totals.Len()).To(BeZero())
			Expect(totals.Companies()).To(BeEmpty())
		})
	})

	When("records share a company name", func() {
		var totals *Totals

		BeforeEach(func() {
			totals = Aggregate([]Record{
				{CompanyName: "Cafe A", TotalAmount: 10},
				{CompanyName: "Cafe A", TotalAmount: 5},
				{CompanyName: "Cafe B", TotalAmount: 0},
			})
		})

		It("combines them into a single entry", func() {
			sum, ok := totals.Sum("Cafe A")
			Expect(ok).To(BeTrue())
			Expect(sum).To(Equal(15.0))
		})

		It("creates zero-amount entries on first occurrence", func() {
			sum, ok := totals.Sum("Cafe B")
			Expect(ok).To(BeTrue())
			Expect(sum).To(BeZero())
		})

		It("orders keys by first occurrence", func() {
			Expect(totals.Companies()).To(Equal([]string{"Cafe A", "Cafe B"}))
		})
	})

	When("company names differ only in case or whitespace", func() {
		It("keeps them as distinct entries", func() {
			totals := Aggregate([]Record{
				{CompanyName: "Acme Corp", TotalAmount: 1},
				{CompanyName: "Acme corp ", TotalAmount: 2},
			})
			Expect(totals.Len()).To(Equal(2))
		})
	})

	It("conserves the total across the aggregate", func() {
		records := []Record{
			{CompanyName: "A", TotalAmount: 1.25},
			{CompanyName: "B", TotalAmount: -0.25},
			{CompanyName: "A", TotalAmount: 3},
			{CompanyName: "", TotalAmount: 7.5},
		}
		var want float64
		for _, r := range records {
			want += r.TotalAmount
		}
		Expect(Aggregate(records).GrandTotal()).To(Equal(want))
	})

	It("treats the empty company name as a valid key", func() {
		totals := Aggregate([]Record{{CompanyName: "", TotalAmount: 2}})
		sum, ok := totals.Sum("")
		Expect(ok).To(BeTrue())
		Expect(sum).To(Equal(2.0))
	})
})

var _ = Describe("Totals JSON", func() {
	var totals *Totals

	BeforeEach(func() {
		totals = NewTotals()
		totals.Add("Cafe A", 15)
		totals.Add("Cafe B", 0)
		totals.Add("Acme Corp", 42.5)
	})

	It("marshals keys in first-occurrence order", func() {
		data, err := json.Marshal(totals)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`{"Cafe A":15,"Cafe B":0,"Acme Corp":42.5}`))
	})

	It("round-trips key/value pairs exactly", func() {
		data, err := json.Marshal(totals)
		Expect(err).NotTo(HaveOccurred())

		decoded := NewTotals()
		Expect(json.Unmarshal(data, decoded)).To(Succeed())
		Expect(decoded.Companies()).To(Equal(totals.Companies()))
		Expect(decoded.Map()).To(Equal(totals.Map()))
	})

	It("rejects a document that is not an object", func() {
		decoded := NewTotals()
		Expect(json.Unmarshal([]byte(`[1,2]`), decoded)).NotTo(Succeed())
	})

	It("rejects non-numeric values", func() {
		decoded := NewTotals()
		Expect(json.Unmarshal([]byte(`{"Cafe A":"15"}`), decoded)).NotTo(Succeed())
	})
})

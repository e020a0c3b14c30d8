package extraction

import (
	"github.com/google/generative-ai-go/genai"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("candidateText", func() {
	var (
		resp *genai.GenerateContentResponse
		text string
		err  error
	)

	JustBeforeEach(func() {
		text, err = candidateText(resp)
	})

	When("the candidate carries text parts", func() {
		BeforeEach(func() {
			resp = &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{
					{
						Content: &genai.Content{
							Parts: []genai.Part{
								genai.Text(`{"company_name": "Cafe A", `),
								genai.Text(`"total_amount": "10.00"}`),
							},
						},
					},
				},
			}
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("concatenates the parts", func() {
			Expect(text).To(Equal(`{"company_name": "Cafe A", "total_amount": "10.00"}`))
		})
	})

	When("there are no candidates", func() {
		BeforeEach(func() {
			resp = &genai.GenerateContentResponse{}
		})

		It("returns the error", func() {
			Expect(err).To(HaveOccurred())
		})
	})

	When("generation was blocked and Content is nil", func() {
		BeforeEach(func() {
			resp = &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{Content: nil}},
			}
		})

		It("returns the error instead of panicking", func() {
			Expect(err).To(HaveOccurred())
		})
	})

	When("the candidate has no parts", func() {
		BeforeEach(func() {
			resp = &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
			}
		})

		It("returns the error", func() {
			Expect(err).To(HaveOccurred())
		})
	})
})

package verify

import "github.com/javariai/corpus/internal/domain"

// DefaultBattery is the built-in question set covering the five
// priority knowledge domains.
func DefaultBattery() []domain.TestQuestion {
	return []domain.TestQuestion{
		{Category: "digital_products", Text: "How do I price a digital course?", ExpectedKeywords: []string{"pricing", "value", "market", "competition"}},
		{Category: "digital_products", Text: "What payment gateway should I use for digital products?", ExpectedKeywords: []string{"stripe", "paypal", "payment", "gateway"}},
		{Category: "digital_products", Text: "How do I market my ebook?", ExpectedKeywords: []string{"marketing", "email", "social", "promotion"}},
		{Category: "digital_products", Text: "How do I handle refunds for digital products?", ExpectedKeywords: []string{"refund", "policy", "customer", "service"}},
		{Category: "digital_products", Text: "How do I build an email list for my digital products?", ExpectedKeywords: []string{"email", "list", "subscribers", "lead magnet"}},
		{Category: "digital_products", Text: "How do I create a sales funnel for digital products?", ExpectedKeywords: []string{"funnel", "lead", "conversion", "automation"}},

		{Category: "real_estate", Text: "What is the BRRRR method in real estate?", ExpectedKeywords: []string{"brrrr", "buy", "rehab", "rent", "refinance", "repeat"}},
		{Category: "real_estate", Text: "What is cap rate and how is it calculated?", ExpectedKeywords: []string{"cap rate", "noi", "property value", "return"}},
		{Category: "real_estate", Text: "What is a 1031 exchange?", ExpectedKeywords: []string{"1031", "tax deferred", "exchange", "like-kind"}},
		{Category: "real_estate", Text: "What is house hacking?", ExpectedKeywords: []string{"house hacking", "live", "rent", "reduce expenses"}},
		{Category: "real_estate", Text: "How do I calculate cash-on-cash return?", ExpectedKeywords: []string{"cash on cash", "return", "cash flow", "investment"}},
		{Category: "real_estate", Text: "How do I screen tenants effectively?", ExpectedKeywords: []string{"tenant screening", "background check", "credit", "references"}},
		{Category: "real_estate", Text: "What is earnest money?", ExpectedKeywords: []string{"earnest money", "deposit", "good faith"}},

		{Category: "vacation_rentals", Text: "How do I become an Airbnb Superhost?", ExpectedKeywords: []string{"superhost", "requirements", "rating", "reviews"}},
		{Category: "vacation_rentals", Text: "What is dynamic pricing for vacation rentals?", ExpectedKeywords: []string{"dynamic pricing", "revenue", "occupancy", "seasonality"}},
		{Category: "vacation_rentals", Text: "How do I optimize my Airbnb listing?", ExpectedKeywords: []string{"listing", "photos", "description", "amenities"}},
		{Category: "vacation_rentals", Text: "What insurance do I need for short-term rentals?", ExpectedKeywords: []string{"insurance", "str", "liability", "airbnb"}},
		{Category: "vacation_rentals", Text: "How do I automate my vacation rental?", ExpectedKeywords: []string{"automation", "self check-in", "smart lock", "messaging"}},
		{Category: "vacation_rentals", Text: "What are local STR regulations I should know?", ExpectedKeywords: []string{"regulations", "permit", "zoning", "legal"}},

		{Category: "legal", Text: "What is a living trust?", ExpectedKeywords: []string{"living trust", "estate planning", "probate", "assets"}},
		{Category: "legal", Text: "How do I form an LLC?", ExpectedKeywords: []string{"llc", "formation", "articles", "operating agreement"}},
		{Category: "legal", Text: "What is the difference between LLC and S-Corp?", ExpectedKeywords: []string{"llc", "s-corp", "tax", "structure"}},
		{Category: "legal", Text: "What is a non-disclosure agreement?", ExpectedKeywords: []string{"nda", "confidentiality", "agreement"}},
		{Category: "legal", Text: "What are the requirements for a valid contract?", ExpectedKeywords: []string{"contract", "offer", "acceptance", "consideration"}},
		{Category: "legal", Text: "What is the statute of limitations?", ExpectedKeywords: []string{"statute of limitations", "time limit", "lawsuit"}},
		{Category: "legal", Text: "What is power of attorney?", ExpectedKeywords: []string{"power of attorney", "poa", "agent", "authority"}},

		{Category: "grants", Text: "What grants are available for veterans starting a business?", ExpectedKeywords: []string{"veterans", "grants", "business", "funding"}},
		{Category: "grants", Text: "How do I write a grant proposal?", ExpectedKeywords: []string{"grant proposal", "application", "writing", "tips"}},
		{Category: "grants", Text: "What is SBIR funding?", ExpectedKeywords: []string{"sbir", "small business", "innovation", "research"}},
		{Category: "grants", Text: "What is the difference between grants and loans?", ExpectedKeywords: []string{"grants", "loans", "difference", "repayment"}},
		{Category: "grants", Text: "How do I register on Grants.gov?", ExpectedKeywords: []string{"grants.gov", "registration", "sam", "duns"}},
		{Category: "grants", Text: "What is grant compliance?", ExpectedKeywords: []string{"compliance", "requirements", "reporting", "audit"}},
	}
}

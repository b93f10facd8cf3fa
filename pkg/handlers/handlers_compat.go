package handlers

import (
	"net/http"

	"github.com/arnavshah/bloodclub-api-go/pkg/compat"
	"github.com/arnavshah/bloodclub-api-go/pkg/matcher"
	"github.com/arnavshah/bloodclub-api-go/pkg/models"
	"github.com/gin-gonic/gin"
)

// CheckCompatibility answers whether ?donor= can give to ?recipient=
func (h *Handler) CheckCompatibility(c *gin.Context) {
	donor, err := compat.ParseBloodGroup(c.Query("donor"))
	if err != nil {
		h.fail(c, err)
		return
	}
	recipient, err := compat.ParseBloodGroup(c.Query("recipient"))
	if err != nil {
		h.fail(c, err)
		return
	}

	ok, err := compat.IsCompatible(donor, recipient)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Metrics.CompatChecks.Inc()

	c.JSON(http.StatusOK, gin.H{
		"donor":      donor,
		"recipient":  recipient,
		"compatible": ok,
	})
}

// AcceptableDonors lists the donor groups a recipient group can receive from
func (h *Handler) AcceptableDonors(c *gin.Context) {
	recipient, err := compat.ParseBloodGroup(c.Param("recipient"))
	if err != nil {
		h.fail(c, err)
		return
	}

	donors, err := compat.AcceptableDonors(recipient)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Metrics.CompatChecks.Inc()

	c.JSON(http.StatusOK, gin.H{
		"recipient":         recipient,
		"acceptable_donors": donors,
	})
}

// CheckEligibility evaluates an ad hoc donation history
func (h *Handler) CheckEligibility(c *gin.Context) {
	var in models.EligibilityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	last, err := compat.ParseDate(in.LastDonation)
	if err != nil {
		h.fail(c, err)
		return
	}
	t, err := compat.ParseDonationType(in.DonationType)
	if err != nil {
		h.fail(c, err)
		return
	}
	policy, err := h.Policies.Lookup(t)
	if err != nil {
		h.fail(c, err)
		return
	}

	willing := in.Willing == nil || *in.Willing
	e := matcher.NewMatcher(policy, h.Clock.Now()).Eligibility(last, willing)
	h.Metrics.RecordEligibility(string(e.DonationType), string(e.Status))

	c.JSON(http.StatusOK, e)
}

// ListPolicies returns the configured donation intervals
func (h *Handler) ListPolicies(c *gin.Context) {
	policies := make([]compat.Policy, 0, len(h.Policies))
	for _, t := range []compat.DonationType{compat.WholeBlood, compat.Plasma, compat.Platelets, compat.DoubleRed} {
		if p, ok := h.Policies[t]; ok {
			policies = append(policies, p)
		}
	}
	c.JSON(http.StatusOK, gin.H{"policies": policies})
}

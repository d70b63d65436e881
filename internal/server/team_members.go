package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	membershipdomain "github.com/smallbiznis/accountfacade/internal/membership/domain"
)

func (s *Server) ListTeamMembers(c *gin.Context) {
	orgID, ok := uuidParam(c, "organisationId", membershipdomain.ErrInvalidOrganisation)
	if !ok {
		return
	}

	members, err := s.membershipSvc.ListTeamMembers(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": members})
}

func (s *Server) RemoveTeamMember(c *gin.Context) {
	orgID, ok := uuidParam(c, "organisationId", membershipdomain.ErrInvalidOrganisation)
	if !ok {
		return
	}
	userID, ok := uuidParam(c, "userId", membershipdomain.ErrInvalidUser)
	if !ok {
		return
	}

	resp, err := s.membershipSvc.RemoveTeamMember(c.Request.Context(), orgID, userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

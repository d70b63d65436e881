package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	notificationdomain "github.com/smallbiznis/accountfacade/internal/notification/domain"
)

type dispatchResponse struct {
	Recipient      string `json:"recipient"`
	TemplateID     string `json:"template_id"`
	NotificationID string `json:"notification_id,omitempty"`
	Delivered      bool   `json:"delivered"`
}

func toDispatchResponse(result notificationdomain.DispatchResult) dispatchResponse {
	return dispatchResponse{
		Recipient:      result.Recipient,
		TemplateID:     result.TemplateID,
		NotificationID: result.NotificationID,
		Delivered:      result.Delivered(),
	}
}

// idFields are the body fields carrying guids. An empty string in one of
// them binds as the nil id so validation reports it with the other fields.
var idFields = []string{"user_id", "organisation_id"}

func bindRequest(c *gin.Context, req any) error {
	raw, err := c.GetRawData()
	if err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	blanked := false
	for _, name := range idFields {
		if value, ok := fields[name]; ok && strings.TrimSpace(string(value)) == `""` {
			delete(fields, name)
			blanked = true
		}
	}
	if blanked {
		if raw, err = json.Marshal(fields); err != nil {
			return err
		}
	}
	return binding.JSON.BindBody(raw, req)
}

// dispatchOne binds the body into req and runs a single-recipient send. A
// delivery failure is still a 200: the caller inspects "delivered".
func dispatchOne[T any](c *gin.Context, send func(*gin.Context, T) (notificationdomain.DispatchResult, error)) {
	var req T
	if err := bindRequest(c, &req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := send(c, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toDispatchResponse(result)})
}

func (s *Server) SendInvite(c *gin.Context) {
	dispatchOne(c, func(c *gin.Context, req notificationdomain.InviteUserRequest) (notificationdomain.DispatchResult, error) {
		return s.notificationSvc.SendInvite(c.Request.Context(), req)
	})
}

func (s *Server) SendRemovedUser(c *gin.Context) {
	dispatchOne(c, func(c *gin.Context, req notificationdomain.RemovedUserRequest) (notificationdomain.DispatchResult, error) {
		return s.notificationSvc.SendRemovedUser(c.Request.Context(), req)
	})
}

func (s *Server) SendNomination(c *gin.Context) {
	dispatchOne(c, func(c *gin.Context, req notificationdomain.NominationRequest) (notificationdomain.DispatchResult, error) {
		return s.notificationSvc.SendNomination(c.Request.Context(), req)
	})
}

func (s *Server) SendDissociationToRegulators(c *gin.Context) {
	var req notificationdomain.DissociationRegulatorsRequest
	if err := bindRequest(c, &req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	results, err := s.notificationSvc.SendDissociationToRegulators(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out := make([]dispatchResponse, 0, len(results))
	for _, result := range results {
		out = append(out, toDispatchResponse(result))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) SendDissociationToProducer(c *gin.Context) {
	dispatchOne(c, func(c *gin.Context, req notificationdomain.DissociationProducerRequest) (notificationdomain.DispatchResult, error) {
		return s.notificationSvc.SendDissociationToProducer(c.Request.Context(), req)
	})
}

func (s *Server) SendResubmission(c *gin.Context) {
	dispatchOne(c, func(c *gin.Context, req notificationdomain.ResubmissionRequest) (notificationdomain.DispatchResult, error) {
		return s.notificationSvc.SendResubmissionToRegulator(c.Request.Context(), req)
	})
}

func (s *Server) SendUserDetailsChange(c *gin.Context) {
	dispatchOne(c, func(c *gin.Context, req notificationdomain.UserDetailsChangeRequest) (notificationdomain.DispatchResult, error) {
		return s.notificationSvc.SendUserDetailsChange(c.Request.Context(), req)
	})
}

func (s *Server) SendApprovedUserConfirmation(c *gin.Context) {
	dispatchOne(c, func(c *gin.Context, req notificationdomain.ApprovedUserRequest) (notificationdomain.DispatchResult, error) {
		return s.notificationSvc.SendApprovedUserConfirmation(c.Request.Context(), req)
	})
}

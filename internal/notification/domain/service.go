package domain

import "context"

// Service validates notification requests and sends them best-effort.
// Only validation and lookup failures are returned as errors; delivery
// failures are reported per recipient on the DispatchResult.
type Service interface {
	SendInvite(ctx context.Context, req InviteUserRequest) (DispatchResult, error)
	SendRemovedUser(ctx context.Context, req RemovedUserRequest) (DispatchResult, error)
	SendNomination(ctx context.Context, req NominationRequest) (DispatchResult, error)
	SendDissociationToRegulators(ctx context.Context, req DissociationRegulatorsRequest) ([]DispatchResult, error)
	SendDissociationToProducer(ctx context.Context, req DissociationProducerRequest) (DispatchResult, error)
	SendResubmissionToRegulator(ctx context.Context, req ResubmissionRequest) (DispatchResult, error)
	SendUserDetailsChange(ctx context.Context, req UserDetailsChangeRequest) (DispatchResult, error)
	SendApprovedUserConfirmation(ctx context.Context, req ApprovedUserRequest) (DispatchResult, error)
}

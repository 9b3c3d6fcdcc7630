package rpc

import (
	"github.com/vendorguard/trusteed/internal/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// IsNotFound reports whether the remote answered a definitive "does not
// exist". Only this answer may reject a dependent local write.
func IsNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// Inconclusive reports whether a remote call failed without answering the
// question: peer fault, transport failure, or timeout. Validation callers
// must treat these as unknown and proceed optimistically, never as absence.
func Inconclusive(err error) bool {
	if err == nil {
		return false
	}
	switch status.Code(err) {
	case codes.NotFound, codes.InvalidArgument, codes.AlreadyExists, codes.FailedPrecondition:
		return false
	}
	return true
}

// toStatus maps domain errors onto transmitted gRPC status codes.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case model.IsNotFound(err):
		return status.Error(codes.NotFound, err.Error())
	case model.IsConflict(err):
		return status.Error(codes.AlreadyExists, err.Error())
	case model.IsValidation(err):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}

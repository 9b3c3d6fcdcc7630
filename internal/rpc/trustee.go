package rpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// TrusteeServiceName is the fully qualified gRPC service name exposed by the
// trustee service.
const TrusteeServiceName = "trustee.v1.TrusteeService"

// TrusteeInfo is a read-only snapshot of a trustee, as transmitted over RPC.
type TrusteeInfo struct {
	ID             string
	CompanyName    string
	BusinessNumber string
	Representative string
	ContactName    string
	ContactPhone   string
	ContactEmail   string
	DelegatedTasks string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidateResult answers an existence check.
type ValidateResult struct {
	Exists      bool
	CompanyName string
}

// TrusteeBackend is the typed server-side contract. Implementations return
// domain errors; the transport maps them to status codes.
type TrusteeBackend interface {
	GetTrustee(ctx context.Context, id string) (*TrusteeInfo, error)
	ValidateTrusteeExists(ctx context.Context, id string) (*ValidateResult, error)
}

// RegisterTrusteeServer registers backend under the TrusteeService descriptor.
func RegisterTrusteeServer(s grpc.ServiceRegistrar, backend TrusteeBackend) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: TrusteeServiceName,
		HandlerType: (*TrusteeBackend)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "GetTrustee", Handler: getTrusteeHandler},
			{MethodName: "ValidateTrusteeExists", Handler: validateTrusteeHandler},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "proto/trustee/v1/trustee.proto",
	}, backend)
}

func getTrusteeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := &structpb.Struct{}
	if err := dec(req); err != nil {
		return nil, err
	}
	invoke := func(ctx context.Context, req any) (any, error) {
		st := req.(*structpb.Struct)
		t, err := srv.(TrusteeBackend).GetTrustee(ctx, strField(st, "id"))
		if err != nil {
			return nil, toStatus(err)
		}
		return trusteeInfoToStruct(t)
	}
	if interceptor == nil {
		return invoke(ctx, req)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + TrusteeServiceName + "/GetTrustee",
	}
	return interceptor(ctx, req, info, invoke)
}

func validateTrusteeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := &structpb.Struct{}
	if err := dec(req); err != nil {
		return nil, err
	}
	invoke := func(ctx context.Context, req any) (any, error) {
		st := req.(*structpb.Struct)
		res, err := srv.(TrusteeBackend).ValidateTrusteeExists(ctx, strField(st, "id"))
		if err != nil {
			return nil, toStatus(err)
		}
		return newStruct(map[string]any{
			"exists":      res.Exists,
			"companyName": res.CompanyName,
		})
	}
	if interceptor == nil {
		return invoke(ctx, req)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + TrusteeServiceName + "/ValidateTrusteeExists",
	}
	return interceptor(ctx, req, info, invoke)
}

func trusteeInfoToStruct(t *TrusteeInfo) (*structpb.Struct, error) {
	return newStruct(map[string]any{
		"id":             t.ID,
		"companyName":    t.CompanyName,
		"businessNumber": t.BusinessNumber,
		"representative": t.Representative,
		"contactName":    t.ContactName,
		"contactPhone":   t.ContactPhone,
		"contactEmail":   t.ContactEmail,
		"delegatedTasks": t.DelegatedTasks,
		"status":         t.Status,
		"createdAt":      timeValue(t.CreatedAt),
		"updatedAt":      timeValue(t.UpdatedAt),
	})
}

func trusteeInfoFromStruct(st *structpb.Struct) *TrusteeInfo {
	return &TrusteeInfo{
		ID:             strField(st, "id"),
		CompanyName:    strField(st, "companyName"),
		BusinessNumber: strField(st, "businessNumber"),
		Representative: strField(st, "representative"),
		ContactName:    strField(st, "contactName"),
		ContactPhone:   strField(st, "contactPhone"),
		ContactEmail:   strField(st, "contactEmail"),
		DelegatedTasks: strField(st, "delegatedTasks"),
		Status:         strField(st, "status"),
		CreatedAt:      timeField(st, "createdAt"),
		UpdatedAt:      timeField(st, "updatedAt"),
	}
}

// TrusteeClient is the typed client for the TrusteeService. It is constructed
// once at composition time and shared by concurrent request handlers.
type TrusteeClient struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

// NewTrusteeClient connects to the trustee service at addr. A zero timeout
// selects DefaultTimeout.
func NewTrusteeClient(addr string, timeout time.Duration) (*TrusteeClient, error) {
	conn, err := dial(addr)
	if err != nil {
		return nil, err
	}
	return &TrusteeClient{conn: conn, timeout: timeout}, nil
}

func (c *TrusteeClient) Close() error {
	return c.conn.Close()
}

// GetTrustee fetches a trustee snapshot by id.
func (c *TrusteeClient) GetTrustee(ctx context.Context, id string) (*TrusteeInfo, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	req, err := newStruct(map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, "/"+TrusteeServiceName+"/GetTrustee", req, resp); err != nil {
		return nil, err
	}
	return trusteeInfoFromStruct(resp), nil
}

// ValidateTrusteeExists asks the trustee service whether id exists.
func (c *TrusteeClient) ValidateTrusteeExists(ctx context.Context, id string) (*ValidateResult, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	req, err := newStruct(map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, "/"+TrusteeServiceName+"/ValidateTrusteeExists", req, resp); err != nil {
		return nil, err
	}
	return &ValidateResult{
		Exists:      boolField(resp, "exists"),
		CompanyName: strField(resp, "companyName"),
	}, nil
}

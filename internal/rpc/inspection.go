package rpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// InspectionServiceName is the fully qualified gRPC service name exposed by
// the inspection service.
const InspectionServiceName = "inspection.v1.InspectionService"

// InspectionInfo is a read-only snapshot of an inspection, as transmitted
// over RPC. A missing score is transmitted as zero.
type InspectionInfo struct {
	ID             string
	TrusteeID      string
	InspectionDate time.Time
	Score          int
	Status         string
	Findings       string
	Improvements   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InspectionExistsResult answers an existence check for an inspection.
type InspectionExistsResult struct {
	Exists bool
	Status string
}

// InspectionBackend is the typed server-side contract.
type InspectionBackend interface {
	GetInspection(ctx context.Context, id string) (*InspectionInfo, error)
	GetInspectionsByTrustee(ctx context.Context, trusteeID string) ([]*InspectionInfo, error)
	GetLatestInspection(ctx context.Context, trusteeID string) (*InspectionInfo, error)
	ValidateInspectionExists(ctx context.Context, id string) (*InspectionExistsResult, error)
}

// RegisterInspectionServer registers backend under the InspectionService
// descriptor.
func RegisterInspectionServer(s grpc.ServiceRegistrar, backend InspectionBackend) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: InspectionServiceName,
		HandlerType: (*InspectionBackend)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "GetInspection", Handler: getInspectionHandler},
			{MethodName: "GetInspectionsByTrustee", Handler: getInspectionsByTrusteeHandler},
			{MethodName: "GetLatestInspection", Handler: getLatestInspectionHandler},
			{MethodName: "ValidateInspectionExists", Handler: validateInspectionHandler},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "proto/inspection/v1/inspection.proto",
	}, backend)
}

func getInspectionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := &structpb.Struct{}
	if err := dec(req); err != nil {
		return nil, err
	}
	invoke := func(ctx context.Context, req any) (any, error) {
		st := req.(*structpb.Struct)
		i, err := srv.(InspectionBackend).GetInspection(ctx, strField(st, "id"))
		if err != nil {
			return nil, toStatus(err)
		}
		return newStruct(inspectionInfoFields(i))
	}
	if interceptor == nil {
		return invoke(ctx, req)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + InspectionServiceName + "/GetInspection",
	}
	return interceptor(ctx, req, info, invoke)
}

func validateInspectionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := &structpb.Struct{}
	if err := dec(req); err != nil {
		return nil, err
	}
	invoke := func(ctx context.Context, req any) (any, error) {
		st := req.(*structpb.Struct)
		res, err := srv.(InspectionBackend).ValidateInspectionExists(ctx, strField(st, "id"))
		if err != nil {
			return nil, toStatus(err)
		}
		return newStruct(map[string]any{
			"exists": res.Exists,
			"status": res.Status,
		})
	}
	if interceptor == nil {
		return invoke(ctx, req)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + InspectionServiceName + "/ValidateInspectionExists",
	}
	return interceptor(ctx, req, info, invoke)
}

func getInspectionsByTrusteeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := &structpb.Struct{}
	if err := dec(req); err != nil {
		return nil, err
	}
	invoke := func(ctx context.Context, req any) (any, error) {
		st := req.(*structpb.Struct)
		list, err := srv.(InspectionBackend).GetInspectionsByTrustee(ctx, strField(st, "trusteeId"))
		if err != nil {
			return nil, toStatus(err)
		}
		items := make([]any, 0, len(list))
		for _, i := range list {
			items = append(items, inspectionInfoFields(i))
		}
		return newStruct(map[string]any{"inspections": items})
	}
	if interceptor == nil {
		return invoke(ctx, req)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + InspectionServiceName + "/GetInspectionsByTrustee",
	}
	return interceptor(ctx, req, info, invoke)
}

func getLatestInspectionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := &structpb.Struct{}
	if err := dec(req); err != nil {
		return nil, err
	}
	invoke := func(ctx context.Context, req any) (any, error) {
		st := req.(*structpb.Struct)
		i, err := srv.(InspectionBackend).GetLatestInspection(ctx, strField(st, "trusteeId"))
		if err != nil {
			return nil, toStatus(err)
		}
		return newStruct(inspectionInfoFields(i))
	}
	if interceptor == nil {
		return invoke(ctx, req)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + InspectionServiceName + "/GetLatestInspection",
	}
	return interceptor(ctx, req, info, invoke)
}

func inspectionInfoFields(i *InspectionInfo) map[string]any {
	return map[string]any{
		"id":             i.ID,
		"trusteeId":      i.TrusteeID,
		"inspectionDate": timeValue(i.InspectionDate),
		"score":          float64(i.Score),
		"status":         i.Status,
		"findings":       i.Findings,
		"improvements":   i.Improvements,
		"createdAt":      timeValue(i.CreatedAt),
		"updatedAt":      timeValue(i.UpdatedAt),
	}
}

func inspectionInfoFromStruct(st *structpb.Struct) *InspectionInfo {
	return &InspectionInfo{
		ID:             strField(st, "id"),
		TrusteeID:      strField(st, "trusteeId"),
		InspectionDate: timeField(st, "inspectionDate"),
		Score:          int(numField(st, "score")),
		Status:         strField(st, "status"),
		Findings:       strField(st, "findings"),
		Improvements:   strField(st, "improvements"),
		CreatedAt:      timeField(st, "createdAt"),
		UpdatedAt:      timeField(st, "updatedAt"),
	}
}

// InspectionClient is the typed client for the InspectionService.
type InspectionClient struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

// NewInspectionClient connects to the inspection service at addr. A zero
// timeout selects DefaultTimeout.
func NewInspectionClient(addr string, timeout time.Duration) (*InspectionClient, error) {
	conn, err := dial(addr)
	if err != nil {
		return nil, err
	}
	return &InspectionClient{conn: conn, timeout: timeout}, nil
}

func (c *InspectionClient) Close() error {
	return c.conn.Close()
}

// GetInspection fetches an inspection snapshot by id.
func (c *InspectionClient) GetInspection(ctx context.Context, id string) (*InspectionInfo, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	req, err := newStruct(map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, "/"+InspectionServiceName+"/GetInspection", req, resp); err != nil {
		return nil, err
	}
	return inspectionInfoFromStruct(resp), nil
}

// ValidateInspectionExists asks the inspection service whether id exists.
func (c *InspectionClient) ValidateInspectionExists(ctx context.Context, id string) (*InspectionExistsResult, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	req, err := newStruct(map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, "/"+InspectionServiceName+"/ValidateInspectionExists", req, resp); err != nil {
		return nil, err
	}
	return &InspectionExistsResult{
		Exists: boolField(resp, "exists"),
		Status: strField(resp, "status"),
	}, nil
}

// GetInspectionsByTrustee fetches all inspections for a trustee, newest first.
func (c *InspectionClient) GetInspectionsByTrustee(ctx context.Context, trusteeID string) ([]*InspectionInfo, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	req, err := newStruct(map[string]any{"trusteeId": trusteeID})
	if err != nil {
		return nil, err
	}
	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, "/"+InspectionServiceName+"/GetInspectionsByTrustee", req, resp); err != nil {
		return nil, err
	}

	var out []*InspectionInfo
	for _, v := range resp.GetFields()["inspections"].GetListValue().GetValues() {
		if sv := v.GetStructValue(); sv != nil {
			out = append(out, inspectionInfoFromStruct(sv))
		}
	}
	return out, nil
}

// GetLatestInspection fetches the most recent inspection for a trustee.
// Returns a NotFound status when the trustee has no inspections.
func (c *InspectionClient) GetLatestInspection(ctx context.Context, trusteeID string) (*InspectionInfo, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	req, err := newStruct(map[string]any{"trusteeId": trusteeID})
	if err != nil {
		return nil, err
	}
	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, "/"+InspectionServiceName+"/GetLatestInspection", req, resp); err != nil {
		return nil, err
	}
	return inspectionInfoFromStruct(resp), nil
}

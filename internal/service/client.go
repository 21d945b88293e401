package service

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// Client calls the event service over Connect with the JSON codec.
type Client struct {
	save     *connect.Client[SaveRequest, SaveResponse]
	getEvent *connect.Client[GetEventRequest, GetEventResponse]
	summary  *connect.Client[SummaryRequest, SummaryResponse]
	compose  *connect.Client[ComposeRequest, ComposeResponse]
	allocate *connect.Client[AllocateRequest, AllocateResponse]
	move     *connect.Client[MoveRequest, MoveResponse]
}

// NewClient constructs a client for the service at baseURL.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &Client{
		save:     connect.NewClient[SaveRequest, SaveResponse](httpClient, baseURL+SaveProcedure, opts...),
		getEvent: connect.NewClient[GetEventRequest, GetEventResponse](httpClient, baseURL+GetEventProcedure, opts...),
		summary:  connect.NewClient[SummaryRequest, SummaryResponse](httpClient, baseURL+SummaryProcedure, opts...),
		compose:  connect.NewClient[ComposeRequest, ComposeResponse](httpClient, baseURL+ComposeProcedure, opts...),
		allocate: connect.NewClient[AllocateRequest, AllocateResponse](httpClient, baseURL+AllocateProcedure, opts...),
		move:     connect.NewClient[MoveRequest, MoveResponse](httpClient, baseURL+MoveProcedure, opts...),
	}
}

func (c *Client) Save(ctx context.Context, req *SaveRequest) (*SaveResponse, error) {
	return call(ctx, c.save, req)
}

func (c *Client) GetEvent(ctx context.Context, req *GetEventRequest) (*GetEventResponse, error) {
	return call(ctx, c.getEvent, req)
}

func (c *Client) Summary(ctx context.Context, req *SummaryRequest) (*SummaryResponse, error) {
	return call(ctx, c.summary, req)
}

func (c *Client) Compose(ctx context.Context, req *ComposeRequest) (*ComposeResponse, error) {
	return call(ctx, c.compose, req)
}

func (c *Client) Allocate(ctx context.Context, req *AllocateRequest) (*AllocateResponse, error) {
	return call(ctx, c.allocate, req)
}

func (c *Client) Move(ctx context.Context, req *MoveRequest) (*MoveResponse, error) {
	return call(ctx, c.move, req)
}

func call[Req, Res any](ctx context.Context, client *connect.Client[Req, Res], req *Req) (*Res, error) {
	resp, err := client.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

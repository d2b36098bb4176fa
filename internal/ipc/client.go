package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"

	"wordcore/internal/api"
	"wordcore/internal/importer"
	"wordcore/internal/planner"
	"wordcore/internal/review"
	"wordcore/internal/store"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) call(method string, req, resp any) error {
	return decodeError(c.client.Call(ServiceName+"."+method, req, resp))
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.call("Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitReview records an exercise attempt.
func (c *Client) SubmitReview(req api.SubmitReviewRequest) (*review.Outcome, error) {
	var resp SubmitReviewResponse
	if err := c.call("SubmitReview", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Outcome, nil
}

// PlanToday returns today's plan for userID.
func (c *Client) PlanToday(userID int64) (*planner.Plan, error) {
	var resp PlanTodayResponse
	if err := c.call("PlanToday", PlanTodayRequest{UserID: userID}, &resp); err != nil {
		return nil, err
	}
	return &resp.Plan, nil
}

// PreviewImport stages an import batch.
func (c *Client) PreviewImport(req api.PreviewImportRequest) (*importer.Preview, error) {
	var resp PreviewImportResponse
	if err := c.call("PreviewImport", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Preview, nil
}

// CommitImport applies a staged batch.
func (c *Client) CommitImport(req api.CommitImportRequest) (*importer.CommitResult, error) {
	var resp CommitImportResponse
	if err := c.call("CommitImport", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Result, nil
}

// CorrectWord changes a word's lemma.
func (c *Client) CorrectWord(req api.CorrectWordRequest) (*CorrectWordResponse, error) {
	var resp CorrectWordResponse
	if err := c.call("CorrectWord", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateWordStatus sets a word's lifecycle label.
func (c *Client) UpdateWordStatus(wordID int64, status string) (*store.Word, error) {
	var resp WordResponse
	if err := c.call("UpdateWordStatus", UpdateWordStatusRequest{WordID: wordID, Status: status}, &resp); err != nil {
		return nil, err
	}
	return &resp.Word, nil
}

// DeleteWord removes a learner's word.
func (c *Client) DeleteWord(userID, wordID int64) (*store.Word, error) {
	var resp WordResponse
	if err := c.call("DeleteWord", DeleteWordRequest{UserID: userID, WordID: wordID}, &resp); err != nil {
		return nil, err
	}
	return &resp.Word, nil
}

// ListCorrections returns ledger rows by word or user.
func (c *Client) ListCorrections(req api.ListCorrectionsRequest) ([]store.WordCorrection, error) {
	var resp ListCorrectionsResponse
	if err := c.call("ListCorrections", req, &resp); err != nil {
		return nil, err
	}
	return resp.Corrections, nil
}

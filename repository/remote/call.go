// Package remote turns one transport round trip into a result.Result.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"roomrental/result"
	"roomrental/transport"
	"roomrental/utils"

	"go.uber.org/zap"
)

// Call performs req and decodes a 2xx JSON body into T. op names the operation
// in failure messages, e.g. "fetch property".
func Call[T any](ctx context.Context, doer transport.Doer, logger *zap.Logger, op string, req transport.Request) (res result.Result[T]) {
	logger = utils.OrNop(logger)
	defer recoverInto(&res, logger, op)

	resp, err := roundTrip(ctx, doer, logger, op, req)
	if err != nil {
		return result.Failure[T](err)
	}

	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		logger.Warn("empty response body", zap.String("op", op), zap.Int("status", resp.StatusCode))
		return result.Failure[T](&result.EmptyBodyError{Op: op, StatusCode: resp.StatusCode})
	}

	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		logger.Warn("undecodable response body", zap.String("op", op), zap.Int("status", resp.StatusCode), zap.Error(err))
		return result.Failure[T](&result.EmptyBodyError{Op: op, StatusCode: resp.StatusCode, Err: err})
	}
	return result.Success(v)
}

// Exec performs req for operations whose success carries no payload. Any 2xx
// succeeds regardless of body.
func Exec(ctx context.Context, doer transport.Doer, logger *zap.Logger, op string, req transport.Request) (res result.Result[struct{}]) {
	logger = utils.OrNop(logger)
	defer recoverInto(&res, logger, op)

	if _, err := roundTrip(ctx, doer, logger, op, req); err != nil {
		return result.Failure[struct{}](err)
	}
	return result.Success(struct{}{})
}

func roundTrip(ctx context.Context, doer transport.Doer, logger *zap.Logger, op string, req transport.Request) (*transport.Response, error) {
	resp, err := doer.Do(ctx, req)
	if err != nil {
		logger.Error("request failed", zap.String("op", op), zap.String("path", req.Path), zap.Error(err))
		return nil, &result.TransportError{Op: op, Err: err}
	}
	if !resp.IsSuccess() {
		rerr := &result.RemoteError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    utils.ErrorMessage(resp.Body),
			Body:       strings.TrimSpace(string(resp.Body)),
		}
		logger.Warn("request rejected",
			zap.String("op", op),
			zap.String("path", req.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", rerr.Message))
		return nil, rerr
	}
	return resp, nil
}

func recoverInto[T any](res *result.Result[T], logger *zap.Logger, op string) {
	if r := recover(); r != nil {
		logger.Error("recovered from panic", zap.String("op", op), zap.Any("panic", r))
		*res = result.Failure[T](fmt.Errorf("failed to %s: unexpected error: %v", op, r))
	}
}

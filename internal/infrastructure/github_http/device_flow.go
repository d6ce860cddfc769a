package github_http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
)

// clientID identifies this app to GitHub's OAuth device flow.
const clientID = "4eafcf49451c588fbeac"

// DeviceFlow drives the OAuth device flow: request a device code, let
// the user confirm it in a browser, then poll for the access token at
// the interval the server dictates.
type DeviceFlow struct {
	client     *http.Client
	webBaseURL string
}

func NewDeviceFlow(client *http.Client, webBaseURL string) *DeviceFlow {
	if webBaseURL == "" {
		webBaseURL = DefaultWebBaseURL
	}
	return &DeviceFlow{client: client, webBaseURL: webBaseURL}
}

type DeviceCode struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Error       string `json:"error"`
}

func (d *DeviceFlow) RequestDeviceCode(ctx context.Context) (DeviceCode, error) {
	var dc DeviceCode
	params := url.Values{"client_id": {clientID}, "scope": {"repo"}}
	if err := d.post(ctx, "/login/device/code", params, &dc); err != nil {
		return dc, err
	}
	if dc.DeviceCode == "" {
		return dc, errors.New("device code response was empty")
	}
	if dc.Interval <= 0 {
		dc.Interval = 5
	}
	return dc, nil
}

// PollForAccessToken polls the token endpoint until the user authorizes
// the device, the code expires, or the context is canceled. The server
// can widen the polling interval mid-flight via slow_down.
func (d *DeviceFlow) PollForAccessToken(ctx context.Context, dc DeviceCode) (string, error) {
	if dc.ExpiresIn > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(dc.ExpiresIn)*time.Second)
		defer cancel()
	}

	params := url.Values{
		"client_id":   {clientID},
		"device_code": {dc.DeviceCode},
		"grant_type":  {"urn:ietf:params:oauth:grant-type:device_code"},
	}

	bo := backoff.NewConstantBackOff(time.Duration(dc.Interval) * time.Second)
	var token string
	op := func() error {
		var tr tokenResponse
		if err := d.post(ctx, "/login/oauth/access_token", params, &tr); err != nil {
			return backoff.Permanent(err)
		}
		switch tr.Error {
		case "":
			token = tr.AccessToken
			return nil
		case "authorization_pending":
			return errors.New("authorization pending")
		case "slow_down":
			bo.Interval += 5 * time.Second
			return errors.New("server asked to slow down")
		default:
			return backoff.Permanent(errors.Errorf("device flow failed: %s", tr.Error))
		}
	}

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return "", err
	}
	if token == "" {
		return "", errors.New("token response was empty")
	}
	return token, nil
}

// ApplicationsURL is where the user can review the grant afterwards.
func (d *DeviceFlow) ApplicationsURL() string {
	return d.webBaseURL + "/settings/connections/applications/" + clientID
}

func (d *DeviceFlow) post(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webBaseURL+path, strings.NewReader(params.Encode()))
	if err != nil {
		return errors.Wrap(err, "cannot build device flow request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "device flow request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("device flow endpoint returned %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "cannot read device flow response")
	}
	return errors.Wrap(json.Unmarshal(body, out), "cannot decode device flow response")
}

package pagination

import "testing"

func TestOffsetRequest_Defaults(t *testing.T) {
	tests := []struct {
		name      string
		in        OffsetRequest
		wantSkip  int
		wantLimit int
	}{
		{name: "empty", in: OffsetRequest{}, wantSkip: 0, wantLimit: DefaultLimit},
		{name: "explicit", in: OffsetRequest{Skip: 10, Limit: 5}, wantSkip: 10, wantLimit: 5},
		{name: "negative skip", in: OffsetRequest{Skip: -3, Limit: 5}, wantSkip: 0, wantLimit: 5},
		{name: "limit above max", in: OffsetRequest{Limit: 1000}, wantSkip: 0, wantLimit: MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.in
			req.Defaults()
			if req.Skip != tt.wantSkip || req.Limit != tt.wantLimit {
				t.Errorf("Defaults() = {%d %d}, want {%d %d}", req.Skip, req.Limit, tt.wantSkip, tt.wantLimit)
			}
		})
	}
}

func TestOffsetQuery_Request(t *testing.T) {
	limit := 20

	tests := []struct {
		name string
		in   OffsetQuery
		want OffsetRequest
	}{
		{name: "no limit", in: OffsetQuery{Skip: 4}, want: OffsetRequest{Skip: 4, Limit: DefaultLimit}},
		{name: "explicit limit", in: OffsetQuery{Skip: 4, Limit: &limit}, want: OffsetRequest{Skip: 4, Limit: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Request(); got != tt.want {
				t.Errorf("Request() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

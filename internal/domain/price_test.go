package domain

import "testing"

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		name    string
		display string
		want    float64
		wantOK  bool
	}{
		{
			name:    "clean numeric string is unchanged",
			display: "1999",
			want:    1999,
			wantOK:  true,
		},
		{
			name:    "rupee symbol and indian grouping",
			display: "₹12,345",
			want:    12345,
			wantOK:  true,
		},
		{
			name:    "dollar symbol with decimals",
			display: "$19.99",
			want:    19.99,
			wantOK:  true,
		},
		{
			name:    "surrounding whitespace",
			display: "  ₹ 1,23,456  ",
			want:    123456,
			wantOK:  true,
		},
		{
			name:    "no digits at all",
			display: "price unavailable",
			wantOK:  false,
		},
		{
			name:    "empty string",
			display: "",
			wantOK:  false,
		},
		{
			name:    "multiple decimal points fail to parse",
			display: "1.2.3",
			wantOK:  false,
		},
		{
			name:    "lone decimal point",
			display: "₹.",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizePrice(tt.display)
			if ok != tt.wantOK {
				t.Fatalf("NormalizePrice(%q) ok = %v, want %v", tt.display, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("NormalizePrice(%q) = %v, want %v", tt.display, got, tt.want)
			}
		})
	}
}

func TestNormalizePriceIdempotent(t *testing.T) {
	first, ok := NormalizePrice("₹12,345")
	if !ok {
		t.Fatal("expected first normalization to succeed")
	}

	second, ok := NormalizePrice("12345")
	if !ok {
		t.Fatal("expected second normalization to succeed")
	}

	if first != second {
		t.Errorf("normalization not idempotent: %v != %v", first, second)
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "₹0"},
		{25, "₹25"},
		{500, "₹500"},
		{1999, "₹1,999"},
		{12345, "₹12,345"},
		{123456, "₹1,23,456"},
		{1234567, "₹12,34,567"},
		{12345678, "₹1,23,45,678"},
		{-1999, "-₹1,999"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatPrice(tt.amount); got != tt.want {
				t.Errorf("FormatPrice(%d) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestFormatPriceRoundTrips(t *testing.T) {
	for _, amount := range []int64{25, 500, 1999, 12345, 1234567} {
		display := FormatPrice(amount)
		got, ok := NormalizePrice(display)
		if !ok {
			t.Fatalf("NormalizePrice(%q) failed", display)
		}
		if got != float64(amount) {
			t.Errorf("round trip of %d via %q = %v", amount, display, got)
		}
	}
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		in   string
		want Platform
	}{
		{"amazon", PlatformAmazon},
		{"flipkart", PlatformFlipkart},
		{"bigbasket", PlatformBigBasket},
		{"", PlatformUnknown},
		{"ebay", PlatformUnknown},
	}

	for _, tt := range tests {
		if got := ParsePlatform(tt.in); got != tt.want {
			t.Errorf("ParsePlatform(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

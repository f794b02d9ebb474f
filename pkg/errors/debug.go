package errors

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
	"go.uber.org/multierr"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	// Joined lists each error of a multierr combination.
	Joined []string `json:"joined,omitempty"`

	APICode    string `json:"api_code,omitempty"`
	APIMessage string `json:"api_message,omitempty"`
	APIFault   string `json:"api_fault,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	if errs := multierr.Errors(err); len(errs) > 1 {
		for _, e := range errs {
			d.Joined = append(d.Joined, e.Error())
		}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		d.APICode = apiErr.ErrorCode()
		d.APIMessage = apiErr.ErrorMessage()
		d.APIFault = apiErr.ErrorFault().String()
	}

	return d
}

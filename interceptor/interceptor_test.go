package interceptor

import "testing"

// orderRecorder embeds NoOpInterceptor and overrides every hook to append
// its name, so a single recorder can assert firing order end to end.
type orderRecorder struct {
	NoOpInterceptor
	order []string
}

func (r *orderRecorder) ReadBeforeExecution(*Context) error {
	r.order = append(r.order, "read_before_execution")
	return nil
}
func (r *orderRecorder) ModifyBeforeSerialization(*Context) error {
	r.order = append(r.order, "modify_before_serialization")
	return nil
}
func (r *orderRecorder) ReadBeforeSerialization(*Context) error {
	r.order = append(r.order, "read_before_serialization")
	return nil
}
func (r *orderRecorder) ReadAfterSerialization(*Context) error {
	r.order = append(r.order, "read_after_serialization")
	return nil
}
func (r *orderRecorder) ModifyBeforeRetryLoop(*Context) error {
	r.order = append(r.order, "modify_before_retry_loop")
	return nil
}
func (r *orderRecorder) ReadBeforeAttempt(*Context) error {
	r.order = append(r.order, "read_before_attempt")
	return nil
}
func (r *orderRecorder) ReadAfterAttempt(*Context) error {
	r.order = append(r.order, "read_after_attempt")
	return nil
}
func (r *orderRecorder) ReadAfterExecution(*Context) error {
	r.order = append(r.order, "read_after_execution")
	return nil
}

// runFixedOrder drives a recorder through the documented hook order for a
// single-attempt call, standing in for what the pipeline driver does.
func runFixedOrder(i Interceptor, ic *Context) error {
	steps := []func(*Context) error{
		i.ReadBeforeExecution,
		i.ModifyBeforeSerialization,
		i.ReadBeforeSerialization,
		i.ReadAfterSerialization,
		i.ModifyBeforeRetryLoop,
		i.ReadBeforeAttempt,
		i.ReadAfterAttempt,
		i.ReadAfterExecution,
	}
	for _, step := range steps {
		if err := step(ic); err != nil {
			return err
		}
	}
	return nil
}

func TestInterceptor_FiresInDocumentedOrder(t *testing.T) {
	rec := &orderRecorder{}
	ic := &Context{}

	if err := runFixedOrder(rec, ic); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"read_before_execution",
		"modify_before_serialization",
		"read_before_serialization",
		"read_after_serialization",
		"modify_before_retry_loop",
		"read_before_attempt",
		"read_after_attempt",
		"read_after_execution",
	}
	if len(rec.order) != len(want) {
		t.Fatalf("expect %d hooks fired, got %d: %v", len(want), len(rec.order), rec.order)
	}
	for i := range want {
		if rec.order[i] != want[i] {
			t.Errorf("hook %d: expect %s, got %s", i, want[i], rec.order[i])
		}
	}
}

func TestNoOpInterceptor_AllHooksReturnNil(t *testing.T) {
	var i Interceptor = NoOpInterceptor{}
	ic := &Context{}

	hooks := map[string]func(*Context) error{
		"ReadBeforeExecution":           i.ReadBeforeExecution,
		"ModifyBeforeSerialization":     i.ModifyBeforeSerialization,
		"ReadBeforeSerialization":       i.ReadBeforeSerialization,
		"ReadAfterSerialization":        i.ReadAfterSerialization,
		"ModifyBeforeRetryLoop":         i.ModifyBeforeRetryLoop,
		"ReadBeforeAttempt":             i.ReadBeforeAttempt,
		"ModifyBeforeSigning":           i.ModifyBeforeSigning,
		"ReadBeforeSigning":             i.ReadBeforeSigning,
		"ReadAfterSigning":              i.ReadAfterSigning,
		"ModifyBeforeTransmit":          i.ModifyBeforeTransmit,
		"ReadBeforeTransmit":            i.ReadBeforeTransmit,
		"ReadAfterTransmit":             i.ReadAfterTransmit,
		"ModifyBeforeDeserialization":   i.ModifyBeforeDeserialization,
		"ReadBeforeDeserialization":     i.ReadBeforeDeserialization,
		"ReadAfterDeserialization":      i.ReadAfterDeserialization,
		"ModifyBeforeAttemptCompletion": i.ModifyBeforeAttemptCompletion,
		"ReadAfterAttempt":              i.ReadAfterAttempt,
		"ModifyBeforeCompletion":        i.ModifyBeforeCompletion,
		"ReadAfterExecution":            i.ReadAfterExecution,
	}

	for name, hook := range hooks {
		if err := hook(ic); err != nil {
			t.Errorf("%s: expect nil, got %v", name, err)
		}
	}
}

package integration_test

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/selimyuksel/cinema-booking-system/internal/app"
	"github.com/selimyuksel/cinema-booking-system/internal/mailer"
	"github.com/selimyuksel/cinema-booking-system/internal/payment"
)

type TestApp struct {
	App     *app.Application
	DB      *pgxpool.Pool
	Mailer  *mailer.MockMailer
	Payment *payment.MockPaymentProvider
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	mockMailer := mailer.NewMockMailer()
	mockPayment := payment.NewMockPaymentProvider()

	application, err := app.NewApplication(
		cfg,
		app.WithMailer(mockMailer),
		app.WithPaymentProvider(mockPayment),
	)
	if err != nil {
		return nil, err
	}

	return &TestApp{
		App:     application,
		DB:      application.DB(),
		Mailer:  mockMailer,
		Payment: mockPayment,
	}, nil
}

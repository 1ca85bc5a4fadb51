package services

import (
	"fmt"
	"strconv"

	"patio-app/config"
	"patio-app/models"

	"gopkg.in/gomail.v2"
)

// SendPricingPendingMail notifies the administrators that a finalized
// reception produced a purchase record awaiting pricing. Mail is
// best-effort: callers log the error and never roll anything back.
func SendPricingPendingMail(purchase *models.Purchase, customerName string) error {
	if config.SMTPHost == "" || len(config.PricingAlertRecipients) == 0 {
		return nil
	}

	subject := "Compra pendiente de precio #" + strconv.FormatInt(int64(purchase.ID), 10)
	body := fmt.Sprintf(`
		<html>
			<body>
				<h3>Nueva compra regular registrada</h3>
				<p>Cliente: <strong>%s</strong></p>
				<p>Semana: <strong>%d</strong></p>
				<p>Kilos netos: <strong>%.2f</strong></p>
				<p>Choferes: %s</p>
				<p>El precio por kilo queda pendiente de asignar por un administrador.</p>
				<p>This is an auto-generated email. Please do not reply.</p>
			</body>
		</html>
	`, customerName, purchase.WeekNumber, purchase.Kilos, purchase.DriversInfo)

	msg := gomail.NewMessage()
	msg.SetHeader("From", config.SMTPSender)
	msg.SetHeader("To", config.PricingAlertRecipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPSender, config.SMTPPassword)
	return dialer.DialAndSend(msg)
}

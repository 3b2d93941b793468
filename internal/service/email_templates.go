package service

import "fmt"

func forgotPasswordEmailTemplate(resetURL, appName string) (string, string) {
	subject := fmt.Sprintf("Redefina sua senha do %s", appName)
	body := fmt.Sprintf(`Você pediu para redefinir sua senha. Use este link para entrar com segurança:
%s

Depois de entrar, você pode definir uma nova senha em Configurações.

Este link expira em 10 minutos e só pode ser usado uma vez.

Se você não fez este pedido, pode ignorar este email. Sua senha não será alterada.

Com carinho,
Equipe %s`, resetURL, appName)

	return subject, body
}

func magicLinkEmailTemplate(magicURL, appName string) (string, string) {
	subject := fmt.Sprintf("Entre no %s", appName)
	body := fmt.Sprintf(`Clique neste link para entrar na sua conta:
%s

Este link expira em 10 minutos e só pode ser usado uma vez.

Se você não fez este pedido, ignore este email.

Com carinho,
Equipe %s`, magicURL, appName)

	return subject, body
}

func welcomeEmailTemplate(name, homeURL, appName string) (string, string) {
	subject := fmt.Sprintf("Bem-vindo(a) ao %s!", appName)
	body := fmt.Sprintf(`Olá %s,

Seu email foi verificado e sua conta está ativa!

Seu primeiro guia já está desbloqueado. Novos guias são liberados a cada dia para você seguir no seu ritmo: %s

Se tiver dúvidas, fale com a gente.

Com carinho,
Equipe %s`, name, homeURL, appName)

	return subject, body
}

func emailChangeVerificationTemplate(name, verifyURL, appName string) (string, string) {
	subject := fmt.Sprintf("Confirme seu novo email no %s", appName)
	body := fmt.Sprintf(`Olá %s,

Você pediu para trocar seu endereço de email. Confirme o novo email clicando neste link:
%s

Este link expira em 24 horas.

Se você não fez este pedido, pode ignorar este email.

Com carinho,
Equipe %s`, name, verifyURL, appName)

	return subject, body
}

func accountDeletedEmailTemplate(name, appName string) (string, string) {
	subject := fmt.Sprintf("Sua conta no %s foi excluída", appName)
	body := fmt.Sprintf(`Olá %s,

Sua conta foi excluída permanentemente do %s.

Todos os seus dados, incluindo perfil, diário e conversas, foram removidos dos nossos sistemas.

Se você não pediu esta exclusão, fale com a gente imediatamente.

Sentiremos sua falta. Se mudar de ideia, você pode criar uma nova conta quando quiser.

Com carinho,
Equipe %s`, name, appName, appName)

	return subject, body
}

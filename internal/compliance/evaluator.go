package compliance

import (
	"fmt"
	"time"
)

// Evaluate applies the delivery rule chain to produce a verdict.
// This is pure domain logic, no I/O and no side effects; adding items or
// restrictions to the input can only keep or grow the restriction list.
//
// Rule order (all rules run, nothing fails fast, so the storefront can show
// every applicable restriction at once):
//  1. Regional restriction (blocking)
//  2. Delivery-hour advisory (warning only)
//  3. Per-product quantity caps (blocking)
//  4. Aggregate order cap (blocking)
//  5. Additional age verification (required step)
//  6. Adult signature on delivery (required step)
func Evaluate(input EvaluateInput, evaluatedAt time.Time) Verdict {
	// Nothing to deliver means nothing to restrict. An empty cart is
	// compliant everywhere, restricted regions included.
	if len(input.Items) == 0 {
		return Verdict{Compliant: true, EvaluatedAt: evaluatedAt}
	}

	var restrictions []DeliveryRestriction

	if IsRestrictedRegion(input.Address.Region) {
		restrictions = append(restrictions, DeliveryRestriction{
			Type:        RestrictionRegion,
			Title:       "Región Restringida",
			Description: "La entrega de alcohol está restringida en esta región",
			Status:      StatusRestricted,
			Details:     "Según la ley chilena, no se permite la entrega de bebidas alcoholicas en esta zona.",
		})
	}

	if input.DeliveryHour != nil && IsHighRiskHour(*input.DeliveryHour) {
		restrictions = append(restrictions, DeliveryRestriction{
			Type:        RestrictionTime,
			Title:       "Horario de Entrega Restringido",
			Description: "Entrega programada en horario nocturno",
			Status:      StatusWarning,
			Details:     "Se recomienda programar la entrega en horario diurno para mayor seguridad.",
		})
	}

	totalQuantity := 0
	hasHighABV := false
	quantityExceeded := false

	for _, item := range input.Items {
		totalQuantity += item.Quantity

		if item.MaxPerOrder != nil && item.Quantity > *item.MaxPerOrder {
			quantityExceeded = true
			restrictions = append(restrictions, DeliveryRestriction{
				Type:        RestrictionQuantity,
				Title:       "Límite de Cantidad Excedido",
				Description: fmt.Sprintf("%s: máximo %d unidades", item.Name, *item.MaxPerOrder),
				Status:      StatusRestricted,
				Details:     "Este producto tiene restricciones de cantidad por regulación sanitaria.",
			})
		}

		if item.HasHighABV() {
			hasHighABV = true
		}
	}

	if totalQuantity > MaxUnitsPerOrder {
		restrictions = append(restrictions, DeliveryRestriction{
			Type:        RestrictionQuantity,
			Title:       "Límite Total de Productos",
			Description: fmt.Sprintf("Máximo %d productos alcoholicos por pedido", MaxUnitsPerOrder),
			Status:      StatusRestricted,
			Details:     "Esta limitación está establecida por la legislación chilena para venta responsable.",
		})
	}

	if hasHighABV || totalQuantity > AgeCheckQuantityThreshold {
		restrictions = append(restrictions, DeliveryRestriction{
			Type:        RestrictionAge,
			Title:       "Verificación de Edad Requerida",
			Description: "Se requiere verificación adicional de edad",
			Status:      StatusRequired,
			Details:     "Para productos de alta graduación o pedidos grandes, se requiere verificación de edad.",
		})
	}

	if hasHighABV || quantityExceeded {
		restrictions = append(restrictions, DeliveryRestriction{
			Type:        RestrictionSignature,
			Title:       "Firma de Adulto Requerida",
			Description: "La entrega requiere firma de persona mayor de edad",
			Status:      StatusRequired,
			Details:     "Por ley chilena, productos de alta graduación requieren confirmación de recepción por adulto.",
		})
	}

	compliant := true
	for _, r := range restrictions {
		if r.Status.Blocking() {
			compliant = false
			break
		}
	}

	return Verdict{
		Compliant:    compliant,
		Restrictions: restrictions,
		EvaluatedAt:  evaluatedAt,
	}
}

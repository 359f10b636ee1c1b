package sqlinline

const QStatsSummary = `--sql cf950447-50f0-4660-a93f-572a9ad54a9a
select
    (select count(*) from users where role = 'student') as students,
    (select count(*) from users where role = 'donor') as donors,
    (select count(*) from scholarships where status = 'active') as active_scholarships,
    (select count(*) from applications) as applications,
    (select count(*) from applications where status = 'pending') as pending_reviews,
    (select count(*) from applications where status in ('funded', 'completed')) as funded_applications,
    (select coalesce(sum(amount_cents), 0) from payments where status = 'completed') as donated_cents,
    (select count(*) from payments where status = 'refunded') as refunds;
`

const QSelectScholarshipDrift = `--sql 20c25e6b-06c4-498f-8859-48243542d432
select s.id, s.applicant_count, s.approved_count, s.funded_count,
       coalesce(a.applicants, 0), coalesce(a.approved, 0), coalesce(a.funded, 0)
from scholarships s
left join (
    select scholarship_id,
           count(*) filter (where status <> 'canceled') as applicants,
           count(*) filter (where status in ('approved', 'funded', 'completed')) as approved,
           count(*) filter (where status in ('funded', 'completed')) as funded
    from applications
    group by scholarship_id
) a on a.scholarship_id = s.id
where s.applicant_count <> coalesce(a.applicants, 0)
   or s.approved_count <> coalesce(a.approved, 0)
   or s.funded_count <> coalesce(a.funded, 0);
`

const QFixScholarshipCounters = `--sql 824984c8-5d7e-4abc-bfcc-bc6843e64a19
update scholarships s
set applicant_count = (select count(*) from applications where scholarship_id = s.id and status <> 'canceled'),
    approved_count = (select count(*) from applications where scholarship_id = s.id and status in ('approved', 'funded', 'completed')),
    funded_count = (select count(*) from applications where scholarship_id = s.id and status in ('funded', 'completed')),
    updated_at = now()
where s.id = $1::uuid;
`

const QSelectDonorDrift = `--sql cbde117c-8732-4b71-b36c-a78630124411
select d.user_id, d.total_donated_cents, coalesce(p.total, 0)
from donor_profiles d
left join (
    select donor_id, sum(amount_cents) as total
    from payments
    where status = 'completed'
    group by donor_id
) p on p.donor_id = d.user_id
where d.total_donated_cents <> coalesce(p.total, 0);
`

const QFixDonorTotal = `--sql 6ed272a1-471a-45cc-ba49-7bab7a099402
update donor_profiles d
set total_donated_cents = coalesce((
    select sum(amount_cents) from payments
    where donor_id = d.user_id and status = 'completed'
), 0)
where d.user_id = $1::uuid;
`
